package restmodel

// Absence is a calendar absence of a user.
type Absence struct {
	ID         string    `json:"_id"`
	DaysCount  float64   `json:"daysCount"`
	Start      Timestamp `json:"start"`
	End        Timestamp `json:"end"`
	Reason     *Reason   `json:"reason,omitempty"`
	ReasonID   string    `json:"reasonId,omitempty"`
	AssignedTo Person    `json:"assignedTo"`
	Approver   Person    `json:"approver"`
	Status     *int      `json:"status,omitempty"`
}

func (Absence) Endpoint() string { return "absences" }

func (Absence) ResponseModel() string { return "Calendar" }

type Reason struct {
	ID           string `json:"_id"`
	CountsAsWork bool   `json:"countsAsWork"`
	Name         string `json:"name"`
	Color        Color  `json:"color"`
}

type Color struct {
	ColorValue string `json:"colorValue"`
	ImageLink  string `json:"imageLink"`
}

// Person is the embedded user shape of an absence.
type Person struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
