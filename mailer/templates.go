package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

const layout = `<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: {{.Accent}}; color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0; }
    .content { background: #f4f4f4; padding: 20px; border-radius: 0 0 10px 10px; }
    .button { display: inline-block; padding: 12px 24px; background: #667eea; color: white; text-decoration: none; border-radius: 5px; margin-top: 15px; }
    .footer { text-align: center; margin-top: 20px; color: #666; font-size: 12px; }
    .warning { color: #e74c3c; font-size: 12px; margin-top: 10px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h2>{{.Heading}}</h2></div>
    <div class="content">{{template "body" .Data}}</div>
    <div class="footer"><p>Bug Tracker Team</p></div>
  </div>
</body>
</html>`

var bodies = map[string]string{
	"bugAssignment": `<p>Hi {{.Name}},</p>
<p>A new bug has been assigned to you:</p>
<h3>{{.BugTitle}}</h3>
<p><strong>Project:</strong> {{.ProjectName}}</p>
<p>Please review and start working on this bug.</p>
<a href="{{.Link}}" class="button">View Bug Details</a>`,

	"bugResolved": `<p>Great news!</p>
<p>The following bug has been resolved:</p>
<h3>{{.BugTitle}}</h3>
<p><strong>Project:</strong> {{.ProjectName}}</p>
<p><strong>Resolved by:</strong> {{.ActorName}}</p>
<a href="{{.Link}}" class="button">Verify Fix</a>`,

	"bugCreated": `<p>Hi {{.Name}},</p>
<p>A new bug has been reported:</p>
<h3>{{.BugTitle}}</h3>
<p><strong>Project:</strong> {{.ProjectName}}</p>
<p><strong>Reported by:</strong> {{.ActorName}}</p>
<p><strong>Priority:</strong> {{.Priority}}</p>
<a href="{{.Link}}" class="button">Review Bug</a>`,

	"bugReopened": `<p>Hi {{.Name}},</p>
<p>A bug you resolved did not pass verification and has been reopened:</p>
<h3>{{.BugTitle}}</h3>
<p><strong>Project:</strong> {{.ProjectName}}</p>
<p><strong>Reopened by:</strong> {{.ActorName}}</p>
<a href="{{.Link}}" class="button">View Bug</a>`,

	"projectAssignment": `<p>Hi {{.Name}},</p>
<p>You have been added to a new project:</p>
<h3>{{.ProjectName}}</h3>
<p><strong>Your Role:</strong> {{.Role}}</p>
<a href="{{.Link}}" class="button">View Project</a>`,

	"passwordReset": `<p>Hi {{.Name}},</p>
<p>You requested a password reset. Your temporary password is:</p>
<h3>{{.Password}}</h3>
<p>Sign in with it and change it from your profile.</p>
<a href="{{.Link}}" class="button">Sign In</a>
<p class="warning">If you didn't request this, contact an administrator.</p>`,
}

type frame struct {
	Heading string
	Accent  template.CSS
	Data    any
}

const (
	accentDefault = "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"
	accentSuccess = "linear-gradient(135deg, #28a745 0%, #20c997 100%)"
	accentWarning = "linear-gradient(135deg, #f39c12 0%, #e74c3c 100%)"
)

var templates = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(bodies))
	for name, body := range bodies {
		t := template.Must(template.New(name).Parse(layout))
		template.Must(t.New("body").Parse(body))
		out[name] = t
	}
	return out
}()

func render(name, heading, accent string, data any) (string, error) {
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, frame{Heading: heading, Accent: template.CSS(accent), Data: data}); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// BugEmail carries what the bug templates print.
type BugEmail struct {
	To          string
	Name        string
	BugTitle    string
	ProjectName string
	ActorName   string
	Priority    string
	Link        string
}

func BugAssignment(d BugEmail) (Email, error) {
	html, err := render("bugAssignment", "🐛 New Bug Assigned", accentDefault, d)
	return Email{To: d.To, Subject: "New Bug Assigned: " + d.BugTitle, HTML: html}, err
}

func BugResolved(d BugEmail) (Email, error) {
	html, err := render("bugResolved", "✅ Bug Resolved", accentSuccess, d)
	return Email{To: d.To, Subject: "Bug Resolved: " + d.BugTitle, HTML: html}, err
}

func BugCreated(d BugEmail) (Email, error) {
	html, err := render("bugCreated", "🆕 New Bug Reported", accentDefault, d)
	return Email{To: d.To, Subject: "New Bug Reported: " + d.BugTitle, HTML: html}, err
}

func BugReopened(d BugEmail) (Email, error) {
	html, err := render("bugReopened", "🔄 Bug Reopened", accentWarning, d)
	return Email{To: d.To, Subject: "Bug Reopened: " + d.BugTitle, HTML: html}, err
}

type ProjectEmail struct {
	To          string
	Name        string
	ProjectName string
	Role        string
	Link        string
}

func ProjectAssignment(d ProjectEmail) (Email, error) {
	html, err := render("projectAssignment", "📋 New Project Assignment", accentDefault, d)
	return Email{To: d.To, Subject: "New Project Assignment: " + d.ProjectName, HTML: html}, err
}

type PasswordResetEmail struct {
	To       string
	Name     string
	Password string
	Link     string
}

func PasswordReset(d PasswordResetEmail) (Email, error) {
	html, err := render("passwordReset", "🔐 Password Reset Request", accentDefault, d)
	return Email{To: d.To, Subject: "Password Reset Request", HTML: html}, err
}
