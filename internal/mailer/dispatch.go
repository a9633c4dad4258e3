package mailer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gomail/gomail"
	"github.com/google/uuid"

	"github.com/airwl/whitemail/internal/logging"
)

// Sender is one open mail-submission session. gomail's SendCloser
// satisfies it; test mode substitutes a no-op.
type Sender interface {
	Send(from string, to []string, msg io.WriterTo) error
	Close() error
}

// SessionFunc opens the session. Connection and authentication failures
// are terminal for the whole run.
type SessionFunc func() (Sender, error)

// SMTPSession dials host:port and authenticates as sender. STARTTLS is
// negotiated opportunistically before authentication.
func SMTPSession(host string, port int, sender, password string) SessionFunc {
	return func() (Sender, error) {
		s, err := gomail.NewDialer(host, port, sender, password).Dial()
		if err != nil {
			return nil, fmt.Errorf("connecting to SMTP %s:%d: %w", host, port, err)
		}
		return s, nil
	}
}

// nopSession stands in for the transport in test mode: every step up to
// the wire happens, the send itself is skipped.
type nopSender struct{}

func (nopSender) Send(string, []string, io.WriterTo) error { return nil }
func (nopSender) Close() error                             { return nil }

// Outcome summarizes one dispatch run
type Outcome struct {
	RunID  string
	Sent   int
	Failed int
	// SentFolders are the source folders behind successful sends, the
	// unit handed to the archiver afterwards.
	SentFolders []string
}

// Dispatcher drives one sequential send run over validated results
type Dispatcher struct {
	Session  SessionFunc
	Sender   string
	Out      io.Writer
	Log      logging.Logger
	TestMode bool
	Delay    time.Duration
}

// Dispatch opens one session and sends every matched group in order.
// Individual send failures are counted and the loop continues; only
// session setup is terminal. The inter-send delay applies after the
// first attempted group and is skipped entirely in test mode.
func (d *Dispatcher) Dispatch(results *Results) (*Outcome, error) {
	if results.Len() == 0 {
		return nil, fmt.Errorf("no validation results to dispatch")
	}

	outcome := &Outcome{RunID: uuid.New().String()}
	d.Log.Info("dispatch run starting", logging.F("run_id", outcome.RunID), logging.F("recipients", results.Len()))

	session := Sender(nopSender{})
	if !d.TestMode {
		var err error
		session, err = d.Session()
		if err != nil {
			return nil, err
		}
	}
	defer session.Close()

	sentFolders := make(map[string]struct{})
	attempted := 0

	for _, result := range results.Recipients() {
		if !result.FolderExists {
			fmt.Fprintf(d.Out, "跳过 %s: 文件夹不存在\n", result.Email)
			outcome.Failed += len(result.Groups())
			continue
		}

		for _, g := range result.Groups() {
			if !g.MatchFound {
				fmt.Fprintf(d.Out, "跳过 %s (抄送: %s): 未找到匹配的附件\n", result.Email, g.CCDisplay())
				outcome.Failed++
				continue
			}

			if attempted > 0 && !d.TestMode {
				fmt.Fprintf(d.Out, "延迟 %d 秒后继续发送...\n", int(d.Delay/time.Second))
				time.Sleep(d.Delay)
			}
			attempted++

			composed := Compose(g)
			msg := d.buildMessage(result.Email, g, composed)
			to := append([]string{result.Email}, g.CC...)

			separateInfo := ""
			if g.SendSeparately {
				separateInfo = "（单独发送）"
			}

			if d.TestMode {
				fmt.Fprintf(d.Out, "测试模式: 将发送邮件给 %s (抄送: %s)%s\n", result.Email, g.CCDisplay(), separateInfo)
				fmt.Fprintf(d.Out, "  附件数量: %d\n", len(composed.Attachments))
				fmt.Fprintf(d.Out, "  附件列表: %v\n", baseNames(composed.Attachments))
				fmt.Fprintf(d.Out, "  邮件主题: %s\n", composed.Subject)
				outcome.Sent++
				continue
			}

			if err := session.Send(d.Sender, to, msg); err != nil {
				fmt.Fprintf(d.Out, "发送失败 %s (抄送: %s)%s: %v\n", result.Email, g.CCDisplay(), separateInfo, err)
				d.Log.Error("send failed", logging.F("run_id", outcome.RunID), logging.F("to", result.Email), logging.F("error", err.Error()))
				outcome.Failed++
				continue
			}

			fmt.Fprintln(d.Out, "发送成功:")
			fmt.Fprintf(d.Out, "  - 收件人: %s\n", result.Email)
			fmt.Fprintf(d.Out, "  - 抄送: %v\n", g.CC)
			fmt.Fprintf(d.Out, "  - 主题: %s\n", composed.Subject)
			fmt.Fprintf(d.Out, "  - 附件: %v%s\n", baseNames(composed.Attachments), separateInfo)
			outcome.Sent++

			sentFolders[filepath.Dir(composed.Attachments[0])] = struct{}{}
		}
	}

	for folder := range sentFolders {
		outcome.SentFolders = append(outcome.SentFolders, folder)
	}

	fmt.Fprintf(d.Out, "\n邮件发送摘要: 成功 %d 封，失败 %d 封\n", outcome.Sent, outcome.Failed)
	d.Log.Info("dispatch run finished", logging.F("run_id", outcome.RunID), logging.F("sent", outcome.Sent), logging.F("failed", outcome.Failed))

	return outcome, nil
}

// buildMessage assembles the MIME message for one group: sanitized
// headers, plain body with an HTML alternative, attachments under their
// original basenames.
func (d *Dispatcher) buildMessage(recipient string, g *MatchGroup, c *Composed) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", SanitizeHeader(d.Sender))
	m.SetHeader("To", SanitizeHeader(recipient))
	m.SetHeader("Subject", SanitizeHeader(c.Subject))
	if len(g.CC) > 0 {
		m.SetHeader("Cc", SanitizeHeader(strings.Join(g.CC, ", ")))
	}
	m.SetBody("text/plain", c.PlainBody)
	m.AddAlternative("text/html", c.HTMLBody)

	for _, path := range c.Attachments {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(d.Out, "  添加附件 %s 失败: %v\n", path, err)
			continue
		}
		m.Attach(path)
		fmt.Fprintf(d.Out, "  - 添加附件: %s\n", filepath.Base(path))
	}

	return m
}
