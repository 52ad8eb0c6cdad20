package email

import "html/template"

// Template names.
const (
	TemplateInvitation = "committee_invitation"
	TemplateRequest    = "committee_request"
)

// InvitationData fills committee_invitation.
type InvitationData struct {
	UserName      string
	CommitteeName string
	CommitteeHead string
	InviteURL     string
}

// RequestData fills committee_request.
type RequestData struct {
	UserName      string
	CommitteeName string
	CommitteeHead string
	RequestURL    string
}

const layoutStyle = `
<style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #f76902; color: white; padding: 24px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
    .button { display: inline-block; background: #f76902; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 16px; }
    .footer { text-align: center; margin-top: 20px; color: #6b7280; font-size: 12px; }
</style>`

func (s *Service) loadTemplates() {
	s.templates[TemplateInvitation] = template.Must(template.New(TemplateInvitation).Parse(`
<!DOCTYPE html>
<html>
<head>` + layoutStyle + `</head>
<body>
<div class="container">
    <div class="header"><h1>You're Invited</h1></div>
    <div class="content">
        <p>Hi {{.UserName}},</p>
        <p>{{.CommitteeHead}} has invited you to join the committee <strong>{{.CommitteeName}}</strong>.</p>
        <a class="button" href="{{.InviteURL}}">View invitation</a>
    </div>
    <div class="footer"><p>SG TigerTracker</p></div>
</div>
</body>
</html>`))

	s.templates[TemplateRequest] = template.Must(template.New(TemplateRequest).Parse(`
<!DOCTYPE html>
<html>
<head>` + layoutStyle + `</head>
<body>
<div class="container">
    <div class="header"><h1>Request to join {{.CommitteeName}}</h1></div>
    <div class="content">
        <p>Hi {{.CommitteeHead}},</p>
        <p><strong>{{.UserName}}</strong> has requested to join the committee <strong>{{.CommitteeName}}</strong>.</p>
        <a class="button" href="{{.RequestURL}}">Review request</a>
    </div>
    <div class="footer"><p>SG TigerTracker</p></div>
</div>
</body>
</html>`))
}
