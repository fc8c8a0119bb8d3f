package render

// emailTemplate is the campaign layout: table-based with inline styles so it
// survives email clients, a hidden preheader span, header navigation, hero
// block, optional images, bullet list, CTA box, and the brand footer.
const emailTemplate = `<!DOCTYPE html>
<html dir="ltr" lang="en">
<head>
<meta charset="UTF-8">
<meta content="width=device-width, initial-scale=1" name="viewport">
<meta name="x-apple-disable-message-reformatting">
<title>{{.Content.SubjectLine}}</title>
</head>
<body style="width:100%;height:100%;padding:0;Margin:0;background-color:#FAFAFA;font-family:arial, 'helvetica neue', helvetica, sans-serif">
<span style="display:none !important;color:#ffffff;height:0;mso-hide:all;line-height:0;visibility:hidden;opacity:0;font-size:0px;width:0">{{.Preheader}}</span>
<table cellpadding="0" cellspacing="0" width="100%" role="none" style="border-collapse:collapse;background-color:#FAFAFA">
<tr><td align="center" style="padding:0;Margin:0">
<table cellpadding="0" cellspacing="0" width="600" role="none" style="border-collapse:collapse;background-color:#FFFFFF">
<tr><td align="left" style="padding:20px;Margin:0;font-size:12px;color:#333333">
<a href="#" style="color:#00CED1">View online version</a>
</td></tr>
<tr><td align="center" style="padding:10px 20px;Margin:0">
<h2 style="Margin:0;font-size:24px;color:#333333">{{.Brand.Name}}</h2>
<p style="Margin:8px 0 0 0;font-size:13px">
<a href="{{.Brand.Links.Home}}" style="color:#333333;text-decoration:none">Home</a> &nbsp;
<a href="{{.Brand.Links.Services}}" style="color:#333333;text-decoration:none">Services</a> &nbsp;
<a href="{{.Brand.Links.Statistics}}" style="color:#333333;text-decoration:none">Statistics</a> &nbsp;
<a href="{{.Brand.Links.Contact}}" style="color:#333333;text-decoration:none">Contact</a> &nbsp;
<a href="{{.Brand.Links.SignUp}}" style="color:#00CED1;text-decoration:none">Join Our List</a>
</p>
</td></tr>
<tr><td align="center" style="padding:30px 20px 10px 20px;Margin:0">
<h1 style="Margin:0;font-size:56px;font-weight:bold;line-height:110%;color:{{.HeroColor}}">{{.Content.HeroTitle}}</h1>
</td></tr>
{{range .ImageRefs}}
<tr><td align="center" style="padding:10px 20px;Margin:0">
<a href="{{$.Content.CTAURL}}"><img src="{{.}}" alt="{{$.Content.HeroTitle}}" width="560" style="display:block;border:0;max-width:560px;width:100%;height:auto"></a>
</td></tr>
{{end}}
{{if not .ImageRefs}}
<tr><td align="center" style="padding:10px 20px;Margin:0">
<table cellpadding="0" cellspacing="0" width="560" role="none" style="border-collapse:collapse;width:100%;max-width:560px">
<tr><td align="center" style="padding:48px 20px;Margin:0;background:linear-gradient(135deg, {{.HeroColor}} 0%, #333333 100%);border-radius:4px">
<p style="Margin:0;font-size:20px;font-weight:bold;color:#FFFFFF">{{.Content.Headline}}</p>
</td></tr>
</table>
</td></tr>
{{end}}
<tr><td align="left" style="padding:10px 40px;Margin:0;font-size:16px;line-height:150%;color:#333333">
<p style="Margin:0 0 12px 0">{{.Content.Greeting}}</p>
<h3 style="Margin:0 0 6px 0;font-size:22px;color:#333333">{{.Content.Headline}}</h3>
<p style="Margin:0 0 16px 0;font-size:16px;color:#666666">{{.Content.Subheadline}}</p>
{{if .Content.BulletPoints}}
<ul style="Margin:0 0 16px 0;padding-left:20px">
{{range .Content.BulletPoints}}<li style="Margin:0 0 6px 0">{{.}}</li>
{{end}}</ul>
{{end}}
<p style="Margin:0 0 16px 0">{{.Content.MainContent}}</p>
</td></tr>
<tr><td align="center" style="padding:10px 40px 30px 40px;Margin:0">
<table cellpadding="0" cellspacing="0" role="none" style="border-collapse:collapse;background-color:#F5F5F5;width:100%">
<tr><td align="center" style="padding:20px;Margin:0">
{{if .Content.UrgencyText}}<p style="Margin:0 0 8px 0;font-size:14px;font-weight:bold;color:#FF6B35">{{.Content.UrgencyText}}</p>{{end}}
{{if .Content.OfferDetails}}<p style="Margin:0 0 14px 0;font-size:14px;color:#333333">{{.Content.OfferDetails}}</p>{{end}}
<a href="{{.Content.CTAURL}}" style="display:inline-block;background-color:#00CED1;color:#FFFFFF;font-size:18px;font-weight:bold;text-decoration:none;padding:12px 32px;border-radius:4px">{{.Content.CTAText}}</a>
</td></tr>
</table>
</td></tr>
<tr><td align="center" style="padding:20px;Margin:0;background-color:#333333;font-size:12px;line-height:160%;color:#FFFFFF">
<p style="Margin:0 0 10px 0">{{.Brand.Footer.Tagline}}</p>
<p style="Margin:0 0 10px 0">{{.Brand.Footer.Copyright}}</p>
<p style="Margin:0 0 10px 0">{{.Brand.Footer.Address}}</p>
<p style="Margin:0 0 10px 0">
<a href="{{.Brand.Links.SignUp}}" style="color:#00CED1">Sign Up</a> &nbsp;
<a href="#" style="color:#FFFFFF">Privacy Policy</a> &nbsp;
<a href="#" style="color:#FFFFFF">Terms of Use</a>
</p>
<p style="Margin:0 0 10px 0">{{.Brand.Footer.Reason}}</p>
<p style="Margin:0"><a href="[unsubscribe]" style="color:#00CED1">Click here to unsubscribe</a> if this is no longer of interest.</p>
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>
`
