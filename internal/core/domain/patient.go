package domain

type Patient struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Age    int    `json:"age"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Status string `json:"status"`
}
