package domain

// User is a profile snapshot embedded into participants. The engine never
// mutates users; profile resolution belongs to the directory collaborator.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
