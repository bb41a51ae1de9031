package mail

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"learning_platform/backend/utils"
)

type SendgridService struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
	logger     *utils.Logger
}

var _ EmailService = (*SendgridService)(nil)

func NewSendgridService(key, appName, fromEmail string, logger *utils.Logger) *SendgridService {
	return &SendgridService{
		client:     sendgrid.NewSendClient(key),
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
		logger:     logger,
	}
}

func (svc *SendgridService) SendMessages(messages ...*Message) {
	for _, msg := range messages {
		if msg == nil || !msg.HasRecipient() {
			continue
		}
		deliver(svc.logger, msg, svc.send)
	}
}

func (svc *SendgridService) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.Subject = svc.subjPrefix + msg.Subject
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Body))
	return m
}

func (svc *SendgridService) send(msg *Message) error {
	res, err := svc.client.Send(svc.prepare(msg))
	if err != nil {
		return errors.Wrap(err, "sendgrid send")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid responded %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
