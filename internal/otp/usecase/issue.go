package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
	"github.com/shandysiswandi/prescripto/internal/pkg/goroutine"
	"github.com/shandysiswandi/prescripto/internal/shared/mailtemplate"
	"go.opentelemetry.io/otel/attribute"
)

const defaultChannelTimeout = 10 * time.Second

type IssueInput struct {
	Email string `validate:"omitempty,email"`
	Phone string `validate:"omitempty,phone"`
}

type IssueEmailInput struct {
	Email string `validate:"required,email"`
}

type IssueOutput struct {
	ID        int64
	Message   string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
	Outcomes  []entity.DeliveryOutcome
}

type delivery struct {
	channel entity.Channel
	send    func(ctx context.Context) entity.DeliveryOutcome
}

// Issue generates one code and delivers it over every channel the request
// names. In single mode only email is used.
func (s *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	in.Email = normalizeIdentifier(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	mode := entity.ModeFromString(s.cfg.GetString("modules.otp.mode"))
	if mode == entity.ModeSingle {
		in.Phone = ""
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Email == "" && in.Phone == "" {
		if mode == entity.ModeSingle {
			return nil, goerror.NewInvalidInput(nil, "email", "email is required")
		}
		return nil, goerror.NewInvalidInput(nil, "email", "email or phone is required", "phone", "email or phone is required")
	}

	return s.issue(ctx, in.Email, in.Phone)
}

// IssueEmail generates a code and delivers it by email only, whatever the mode.
func (s *Usecase) IssueEmail(ctx context.Context, in IssueEmailInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "IssueEmail")
	defer span.End()

	in.Email = normalizeIdentifier(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.issue(ctx, in.Email, "")
}

func (s *Usecase) issue(ctx context.Context, email, phone string) (*IssueOutput, error) {
	id := s.uid.Generate()
	primary := lo.Ternary(email != "", email, phone)

	entry, err := s.generate(ctx, primary, GenerateOptions{})
	if err != nil {
		return nil, err
	}

	var deliveries []delivery
	if email != "" {
		deliveries = append(deliveries, delivery{
			channel: entity.ChannelEmail,
			send:    func(ctx context.Context) entity.DeliveryOutcome { return s.sendEmail(ctx, email, entry.Code) },
		})
	}
	if phone != "" {
		deliveries = append(deliveries, delivery{
			channel: entity.ChannelSMS,
			send:    func(ctx context.Context) entity.DeliveryOutcome { return s.sendSMS(ctx, phone, entry.Code) },
		})
	}

	outcomes := s.dispatch(ctx, deliveries)
	for _, o := range outcomes {
		s.count(ctx, s.deliveryCounter,
			attribute.String("channel", o.Channel.String()),
			attribute.Bool("success", o.Success),
		)
	}

	policy := entity.PolicyFromString(s.cfg.GetString("modules.otp.policy"))
	if failed, channels := policy.Failed(outcomes); failed {
		names := strings.Join(lo.Map(channels, func(c entity.Channel, _ int) string { return c.String() }), ", ")
		slog.ErrorContext(ctx, "failed to deliver otp", "issue_id", id, "identifier", primary, "channels", names, "policy", string(policy))
		s.count(ctx, s.issuedCounter, attribute.String("result", "failed"))

		return nil, goerror.NewDelivery(
			fmt.Errorf("%w: %s", entity.ErrChannelDelivery, names),
			"Failed to send OTP via "+names,
		)
	}

	slog.InfoContext(ctx, "otp issued", "issue_id", id, "identifier", primary, "channels", len(outcomes))
	s.count(ctx, s.issuedCounter, attribute.String("result", "sent"))

	out := &IssueOutput{
		ID:        id,
		Message:   "OTP sent successfully",
		CreatedAt: entry.CreatedAt,
		ExpiresAt: entry.ExpiresAt,
		Outcomes:  outcomes,
	}
	if s.cfg.GetBool("modules.otp.expose_code") {
		out.Code = entry.Code
	}

	return out, nil
}

// dispatch runs every delivery concurrently and waits until each one has
// finished or run past the channel timeout.
func (s *Usecase) dispatch(ctx context.Context, deliveries []delivery) []entity.DeliveryOutcome {
	timeout := s.cfg.GetSecond("modules.otp.channel_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultChannelTimeout
	}

	tasks := lo.Map(deliveries, func(d delivery, _ int) func(context.Context) entity.DeliveryOutcome {
		return d.send
	})
	results := goroutine.All(ctx, timeout, tasks...)

	return lo.Map(results, func(res goroutine.Result[entity.DeliveryOutcome], i int) entity.DeliveryOutcome {
		ch := deliveries[i].channel
		switch {
		case res.Err == nil:
			res.Value.Channel = ch
			return res.Value
		case errors.Is(res.Err, context.DeadlineExceeded):
			slog.WarnContext(ctx, "otp channel timed out", "channel", ch.String(), "timeout", timeout.String())
			return entity.DeliveryOutcome{Channel: ch, Error: fmt.Sprintf("%s channel timed out after %s", ch, timeout)}
		case errors.Is(res.Err, goroutine.ErrPanic):
			return entity.DeliveryOutcome{Channel: ch, Error: "sender panicked: " + strings.TrimPrefix(res.Err.Error(), goroutine.ErrPanic.Error()+": ")}
		default:
			return entity.DeliveryOutcome{Channel: ch, Error: "delivery not attempted: " + res.Err.Error()}
		}
	})
}

func (s *Usecase) sendEmail(ctx context.Context, to, code string) entity.DeliveryOutcome {
	html, err := mailtemplate.Render(mailtemplate.Data{Code: code, Year: s.clock.Now().Year()})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render otp email", "error", err)
		return entity.DeliveryOutcome{Channel: entity.ChannelEmail, Error: "failed to render email"}
	}

	return s.repoEmail.SendEmail(ctx, to, s.cfg.GetString("modules.otp.email_subject"), html)
}

func (s *Usecase) sendSMS(ctx context.Context, phone, code string) entity.DeliveryOutcome {
	text, err := renderText(s.cfg.GetString("modules.otp.sms_template"), code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render otp sms", "error", err)
		return entity.DeliveryOutcome{Channel: entity.ChannelSMS, Error: "failed to render sms"}
	}

	return s.repoSMS.SendSMS(ctx, phone, text)
}

func renderText(tpl, code string) (string, error) {
	t, err := template.New("sms").Option("missingkey=error").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, struct{ Code string }{Code: code}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
