package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"astrodesk/models"
)

// Placeholder replaces optional fields the client left empty.
const Placeholder = "none"

// Message is one composed e-mail with plain-text and HTML alternatives.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type template struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func mustTemplate(name, subject, text, html string) template {
	return template{
		subject: texttemplate.Must(texttemplate.New(name + "_subject").Parse(subject)),
		text:    texttemplate.Must(texttemplate.New(name + "_text").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name + "_html").Parse(html)),
	}
}

var (
	bookingAdminTemplate = mustTemplate("booking_admin",
		`New booking: {{.Date}} at {{.Hour}}:00`,
		`Hello,

You have a new booking for "{{.Service}}".

Date: {{.Date}}
Hour: {{.Hour}}:00
Name: {{.Name}}
Email: {{.Email}}
Phone: {{.Phone}}
Notes: {{.Notes}}
`,
		`<html>
  <body>
    <h2>New booking</h2>
    <p>You have a new booking for "{{.Service}}".</p>
    <ul>
      <li><strong>Date:</strong> {{.Date}}</li>
      <li><strong>Hour:</strong> {{.Hour}}:00</li>
      <li><strong>Name:</strong> {{.Name}}</li>
      <li><strong>Email:</strong> {{.Email}}</li>
      <li><strong>Phone:</strong> {{.Phone}}</li>
      <li><strong>Notes:</strong> {{.Notes}}</li>
    </ul>
  </body>
</html>
`)

	bookingClientTemplate = mustTemplate("booking_client",
		`Booking confirmation: {{.Date}} at {{.Hour}}:00`,
		`Hello {{.Name}},

Your booking for "{{.Service}}" is confirmed.

Date: {{.Date}}
Hour: {{.Hour}}:00

We look forward to seeing you!
`,
		`<html>
  <body>
    <h2>Your booking is confirmed</h2>
    <p>Hello {{.Name}},</p>
    <p>Your booking for "{{.Service}}" is confirmed.</p>
    <ul>
      <li><strong>Date:</strong> {{.Date}}</li>
      <li><strong>Hour:</strong> {{.Hour}}:00</li>
    </ul>
    <p>We look forward to seeing you!</p>
  </body>
</html>
`)

	purchaseClientTemplate = mustTemplate("purchase_client",
		`Your purchase: {{.Title}}`,
		`Hello {{.Name}},

Thank you for purchasing "{{.Title}}" ({{.Amount}}).

Download link: {{.Link}}

Order reference: {{.OrderID}}
`,
		`<html>
  <body>
    <h2>Thank you for your purchase</h2>
    <p>Hello {{.Name}},</p>
    <p>Thank you for purchasing "{{.Title}}" ({{.Amount}}).</p>
    <p><strong>Download link:</strong> {{if .HasLink}}<a href="{{.Link}}">{{.Link}}</a>{{else}}{{.Link}}{{end}}</p>
    <p>Order reference: {{.OrderID}}</p>
  </body>
</html>
`)
)

// Composer fills the three message templates.
type Composer struct {
	serviceName string
	adminEmail  string
}

func NewComposer(serviceName, adminEmail string) *Composer {
	return &Composer{serviceName: serviceName, adminEmail: adminEmail}
}

type bookingFields struct {
	Service, Date, Name, Email, Phone, Notes string
	Hour                                     int
}

func (c *Composer) bookingFields(b models.Booking) bookingFields {
	return bookingFields{
		Service: orPlaceholder(c.serviceName),
		Date:    b.Date,
		Hour:    b.Hour,
		Name:    b.Name,
		Email:   b.Email,
		Phone:   b.Phone,
		Notes:   orPlaceholder(b.Notes),
	}
}

// BookingAdminNotice tells the practitioner about a new booking.
func (c *Composer) BookingAdminNotice(b models.Booking) (Message, error) {
	if c.adminEmail == "" {
		return Message{}, fmt.Errorf("mail: admin address is not configured")
	}
	return render(bookingAdminTemplate, c.adminEmail, c.bookingFields(b))
}

// BookingClientConfirmation confirms the booking to the client.
func (c *Composer) BookingClientConfirmation(b models.Booking) (Message, error) {
	return render(bookingClientTemplate, b.Email, c.bookingFields(b))
}

// PurchaseConfirmation sends the buyer their download link.
func (c *Composer) PurchaseConfirmation(o models.Order, link string) (Message, error) {
	fields := struct {
		Name, Title, Amount, Link, OrderID string
		HasLink                            bool
	}{
		Name:    o.Name,
		Title:   o.ProductTitle,
		Amount:  fmt.Sprintf("%.2f", o.Amount),
		Link:    orPlaceholder(link),
		OrderID: o.ID,
		HasLink: link != "",
	}
	return render(purchaseClientTemplate, o.Email, fields)
}

func render(t template, to string, data any) (Message, error) {
	var subject, text, html bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("mail: render subject: %w", err)
	}
	if err := t.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("mail: render text: %w", err)
	}
	if err := t.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("mail: render html: %w", err)
	}
	return Message{To: to, Subject: subject.String(), Text: text.String(), HTML: html.String()}, nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
