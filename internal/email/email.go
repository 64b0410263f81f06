// Package email delivers account notifications to parents.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
)

var (
	ErrSendFailed = errors.New("email delivery failed")
	ErrDisabled   = errors.New("email delivery disabled")
)

const childCredentialsSubject = "Your My Study Swaps Child Account Details"

type ChildCredentials struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
	Age       int
	KeyStage  string
}

type ChildCredentialsMessage struct {
	ParentEmail string
	ParentName  string
	Children    []ChildCredentials
	LoginURL    string
}

// Sender sends transactional email
type Sender interface {
	SendChildCredentials(ctx context.Context, msg ChildCredentialsMessage) error
}

var childCredentialsTemplate = template.Must(template.New("child-credentials").Parse(`<h1>Welcome to My Study Swaps!</h1>
<p>Hi {{.ParentName}},</p>
<p>Your child accounts have been created successfully:</p>
{{range .Children}}<div style="border: 1px solid #ddd; padding: 15px; margin: 10px 0;">
  <h3>{{.FirstName}} {{.LastName}}</h3>
  <p><strong>Username:</strong> {{.Username}}</p>
  <p><strong>Password:</strong> {{.Password}}</p>
  <p><strong>Age:</strong> {{.Age}} | <strong>Key Stage:</strong> {{.KeyStage}}</p>
</div>
{{end}}<p>Children can log in at: <a href="{{.LoginURL}}">{{.LoginURL}}</a></p>
<p>Best regards,<br>My Study Swaps Team</p>
`))

// RenderChildCredentials builds the HTML and plain text bodies
func RenderChildCredentials(msg ChildCredentialsMessage) (html string, text string, err error) {
	var buf bytes.Buffer
	if err := childCredentialsTemplate.Execute(&buf, msg); err != nil {
		return "", "", fmt.Errorf("failed to render credentials email: %w", err)
	}

	var plain bytes.Buffer
	fmt.Fprintf(&plain, "Hi %s,\n\nYour child accounts have been created successfully:\n\n", msg.ParentName)
	for _, c := range msg.Children {
		fmt.Fprintf(&plain, "%s %s\nUsername: %s\nPassword: %s\nAge: %d | Key Stage: %s\n\n",
			c.FirstName, c.LastName, c.Username, c.Password, c.Age, c.KeyStage)
	}
	fmt.Fprintf(&plain, "Children can log in at: %s\n\nBest regards,\nMy Study Swaps Team\n", msg.LoginURL)

	return buf.String(), plain.String(), nil
}

type disabledSender struct{}

// NewDisabledSender is used when no provider key is configured
func NewDisabledSender() Sender {
	return disabledSender{}
}

func (disabledSender) SendChildCredentials(context.Context, ChildCredentialsMessage) error {
	return ErrDisabled
}

// MockSender records messages; Err, when set, is returned from every send
type MockSender struct {
	mu   sync.Mutex
	Sent []ChildCredentialsMessage
	Err  error
}

func (m *MockSender) SendChildCredentials(ctx context.Context, msg ChildCredentialsMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *MockSender) Messages() []ChildCredentialsMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ChildCredentialsMessage(nil), m.Sent...)
}
