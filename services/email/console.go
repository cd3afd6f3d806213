package emailsvc

import (
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/edulineal/backend/core"
)

// SentMessages collects everything "sent" by the console service; test hooks.
var (
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	disableOutput    bool
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService returns an EmailService that prints mail to stdout. Debug only.
func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail,
		subjPrefix:       "[" + conf.AppName + "] ",
	}
}

// NewConsoleServiceMock is like NewConsoleService with output disabled; it only
// records messages in SentMessages.
func NewConsoleServiceMock(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail,
		subjPrefix:       "[" + conf.AppName + "] ",
		disableOutput:    true,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if msg.HasRecipients() && msg.HasContent() {
		if !svc.disableOutput {
			svc.print(*msg)
		}
		mu.Lock()
		SentMessages = append(SentMessages, *msg)
		mu.Unlock()
	}
}

func (svc consoleService) print(msg core.EmailMessage) {
	body := new(strings.Builder)
	body.WriteString("From: " + svc.defaultFromEmail.String() + "\n")

	tos := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		tos = append(tos, to.String())
	}
	body.WriteString("To: " + strings.Join(tos, ", ") + "\n")
	body.WriteString("Subject: " + svc.subjPrefix + msg.Subject + "\n")
	body.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\n\n")
	body.WriteString(msg.Body + "\n")

	fmt.Println(body.String())
}
