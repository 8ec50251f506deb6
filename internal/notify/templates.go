// AngelaMos | 2026
// templates.go

package notify

import "fmt"

func VerificationEmail(name string, code int) Message {
	body := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px;">
  <h2>Welcome, %s!</h2>
  <p>Thanks for creating an account. Use the code below to activate it:</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%06d</p>
  <p>The code expires in 5 minutes. If you did not sign up, ignore this email.</p>
</div>`, name, code)

	return Message{
		Subject:  "Activate Your Account",
		HTMLBody: body,
	}
}

func ResetPasswordEmail(name string, code int) Message {
	body := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px;">
  <h2>Hello, %s</h2>
  <p>We received a request to reset your password. Your reset code:</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%06d</p>
  <p>The code expires in 5 minutes. If you did not request this, ignore this email.</p>
</div>`, name, code)

	return Message{
		Subject:  "Reset password code",
		HTMLBody: body,
	}
}
