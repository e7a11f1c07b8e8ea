package domain

import "strings"

// Client is a row of the Clients sheet. Reference data, loaded once.
type Client struct {
	ID      string `json:"id_client" validate:"required,client_id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	State   string `json:"state"`
}

// FullName joins name and surname with a single space.
func (c Client) FullName() string {
	return strings.TrimSpace(strings.Join([]string{c.Name, c.Surname}, " "))
}
