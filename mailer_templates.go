package identity

// ActivationEmailData feeds the activation template.
type ActivationEmailData struct {
	SiteName      string
	ActivationKey string
	ActivationURL string
}

const emailTemplates = `
{{define "activation"}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Activate your account</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="font-size: 24px;">Welcome to {{.SiteName}}</h1>
    <p>
        Someone, hopefully you, registered this address on {{.SiteName}}.
        To finish setting up the account, confirm the address by following
        the link below.
    </p>
    <p>
        <a href="{{.ActivationURL}}" style="display: inline-block; padding: 12px 24px; background-color: #4F46E5; color: #fff; text-decoration: none; border-radius: 6px;">Activate account</a>
    </p>
    <p style="color: #666; font-size: 14px;">
        If the button does not work, paste this into your browser:<br>
        {{.ActivationURL}}
    </p>
    <p style="color: #666; font-size: 14px;">
        If you did not register, you can ignore this email; the account
        stays inactive.
    </p>
</body>
</html>
{{end}}
`
