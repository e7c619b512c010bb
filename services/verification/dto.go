package verification

// VerificationRequestBody is the body of a verification submission.
type VerificationRequestBody struct {
	DiscordUsername string `json:"discord_username"`
	DiscordID       string `json:"discord_id"`
	Email           string `json:"email"`
}

// ReviewRequest is the body of an admin review.
type ReviewRequest struct {
	Status     string  `json:"status"`
	ReviewedBy *string `json:"reviewed_by"`
}
