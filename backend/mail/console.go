package mail

import "learning_platform/backend/utils"

// ConsoleService writes messages to the log instead of sending them.
type ConsoleService struct {
	subjPrefix string
	logger     *utils.Logger
}

var _ EmailService = (*ConsoleService)(nil)

func NewConsoleService(appName string, logger *utils.Logger) *ConsoleService {
	return &ConsoleService{subjPrefix: "[" + appName + "] ", logger: logger}
}

func (svc *ConsoleService) SendMessages(messages ...*Message) {
	for _, msg := range messages {
		if msg == nil || !msg.HasRecipient() {
			continue
		}
		deliver(svc.logger, msg, svc.print)
	}
}

func (svc *ConsoleService) print(msg *Message) error {
	svc.logger.Info("email",
		"to", msg.ToEmail,
		"subject", svc.subjPrefix+msg.Subject,
		"body", msg.Body,
	)
	return nil
}
