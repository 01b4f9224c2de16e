package model

// Identity providers.
const (
	ProviderOrganization = "organization"
	ProviderSpace        = "space"
)

// Identity is a stream owner: a user or a space.
type Identity struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	RemoteID string `json:"remote_id"`
}

// Space is a collaboration space with its own activity stream.
type Space struct {
	ID         string `json:"id"`
	PrettyName string `json:"pretty_name"`
	GroupID    string `json:"group_id"`
}
