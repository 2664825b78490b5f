package notify

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

type templateData struct {
	Name     string
	URL      string
	LoginURL string
	Reason   string
}

type emailTemplate struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func (t emailTemplate) render(d templateData) (string, string, error) {
	var text, html strings.Builder
	if err := t.text.Execute(&text, d); err != nil {
		return "", "", err
	}
	if err := t.html.Execute(&html, d); err != nil {
		return "", "", err
	}
	return text.String(), html.String(), nil
}

func newTemplate(name, subject, text, html string) emailTemplate {
	return emailTemplate{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New(name).Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name).Parse(layoutHead + html + layoutFoot)),
	}
}

const layoutHead = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
`

const layoutFoot = `
<p style="margin-top: 30px; font-size: 12px; color: #666;">Maids Services</p>
</body>
</html>`

var templates = map[Kind]emailTemplate{
	KindVerification: newTemplate("verification", "Verify Your Email Address",
		`Welcome to Maids Services!

Hi {{.Name}},

Thank you for signing up! Please verify your email address by visiting the link below:
{{.URL}}

This link will expire in 24 hours. If you didn't create an account, please ignore this email.
`,
		`<h1>Welcome to Maids Services!</h1>
<p>Hi {{.Name}},</p>
<p>Thank you for signing up! Please verify your email address by clicking the button below:</p>
<p><a href="{{.URL}}" style="background: #0066cc; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Verify Email</a></p>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: #0066cc;">{{.URL}}</p>
<p style="font-size: 12px; color: #666;">This link will expire in 24 hours. If you didn't create an account, please ignore this email.</p>`),

	KindPasswordReset: newTemplate("password_reset", "Reset Your Password",
		`Password Reset Request

Hi {{.Name}},

You requested to reset your password. Visit the link below to reset it:
{{.URL}}

This link will expire in 10 minutes. If you didn't request a password reset, please ignore this email.
`,
		`<h1>Password Reset Request</h1>
<p>Hi {{.Name}},</p>
<p>You requested to reset your password. Click the button below to reset it:</p>
<p><a href="{{.URL}}" style="background: #0066cc; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Reset Password</a></p>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: #0066cc;">{{.URL}}</p>
<p style="font-size: 12px; color: #666;">This link will expire in 10 minutes. If you didn't request a password reset, please ignore this email.</p>`),

	KindAccountApproved: newTemplate("account_approved", "Your Account Has Been Approved",
		`Account Approved!

Hi {{.Name}},

Great news! Your account has been approved by our admin team. You can now access all features of our platform.

Sign in at: {{.LoginURL}}
`,
		`<h1>Account Approved!</h1>
<p>Hi {{.Name}},</p>
<p>Great news! Your account has been approved by our admin team. You can now access all features of our platform.</p>
<p><a href="{{.LoginURL}}" style="background: #0066cc; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Sign In</a></p>`),

	KindAccountSuspended: newTemplate("account_suspended", "Account Suspension Notice",
		`Account Suspended

Hi {{.Name}},

We regret to inform you that your account has been suspended.
{{if .Reason}}Reason: {{.Reason}}
{{end}}
If you believe this is an error, please contact our support team.
`,
		`<h1>Account Suspended</h1>
<p>Hi {{.Name}},</p>
<p>We regret to inform you that your account has been suspended.</p>
{{if .Reason}}<p><strong>Reason:</strong> {{.Reason}}</p>{{end}}
<p>If you believe this is an error, please contact our support team.</p>`),

	KindAccountBanned: newTemplate("account_banned", "Account Closed",
		`Account Closed

Hi {{.Name}},

Your account has been permanently closed by our admin team and can no longer be used to sign in.

If you believe this is an error, please contact our support team.
`,
		`<h1>Account Closed</h1>
<p>Hi {{.Name}},</p>
<p>Your account has been permanently closed by our admin team and can no longer be used to sign in.</p>
<p>If you believe this is an error, please contact our support team.</p>`),
}
