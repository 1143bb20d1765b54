package mail

type OutreachEmailData struct {
	Name   string
	Course string
	Body   string
	Price  float64
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
