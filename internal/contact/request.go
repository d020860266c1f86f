package contact

type CreateContactRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	UserID string `json:"userId"`
}
