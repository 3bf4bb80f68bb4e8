package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeTpl = template.Must(template.New("welcome").Parse(`<html>
<body>
	<h2>Welcome to Places, {{.Name}}!</h2>
	<p>Your account is ready. Log in and start adding the places you love.</p>
</body>
</html>`))

// RenderWelcome builds subject, text and HTML bodies for the welcome email.
func RenderWelcome(data map[string]any) (subject, text, html string, err error) {
	name := fmt.Sprintf("%v", data["Name"])
	if name == "" || name == "<nil>" {
		name = "there"
	}
	var buf bytes.Buffer
	if err := welcomeTpl.Execute(&buf, map[string]any{"Name": name}); err != nil {
		return "", "", "", err
	}
	subject = "Welcome to Places"
	text = "Welcome to Places, " + name + "! Your account is ready."
	return subject, text, buf.String(), nil
}
