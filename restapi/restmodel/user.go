package restmodel

type User struct {
	ID             string   `json:"_id,omitempty"`
	Name           string   `json:"name"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	NameByLastname string   `json:"nameByLastname"`
	TimeZone       string   `json:"timeZone"`
	TeamIDs        []string `json:"teamIds"`
	Teams          []Team   `json:"teams,omitempty"`
}

func (User) Endpoint() string { return "users" }

func (User) ResponseModel() string { return "" }

type Team struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Company string `json:"company"`
	IcsLink string `json:"icsLink,omitempty"`
}
