// Package delivery renders analysis reports and ships them.
//
// Each delivery method is a driven.Deliverer:
//
//   - console: styled text on stdout (plain when not a terminal)
//   - file_text, file_html: pickles_report_YYYYmmdd_HHMMSS.{txt,html}
//   - email_text, email_html: SMTP, or Resend when an API key is set
//
// Build the set configured in settings with FromSettings.
package delivery
