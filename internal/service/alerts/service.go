// Package alerts builds the expiry and low-stock digest and pushes it to an
// operator over WhatsApp.
package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/service/reporting"
	client "github.com/estoque-lab/estoque/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// Source is the read side of the inventory the digest is built from.
type Source interface {
	Groups(ctx context.Context, f reporting.Filter) ([]reporting.Group, error)
	Totals(ctx context.Context) ([]reporting.Group, error)
	Expiring(ctx context.Context) (reporting.ExpiringSummary, error)
}

// Service renders and delivers alerts. With a nil client digests are only logged.
type Service struct {
	source    Source
	client    client.Client
	recipient string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires the alert service.
func NewService(source Source, c client.Client, recipient string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:    source,
		client:    c,
		recipient: recipient,
		logger:    logger,
		now:       time.Now,
	}
}

// Digest is the rendered alert and whether it carries anything actionable.
type Digest struct {
	Text       string `json:"text"`
	Actionable bool   `json:"actionable"`
}

// Digest renders the current alert text.
func (s *Service) Digest(ctx context.Context) (Digest, error) {
	groups, err := s.source.Groups(ctx, reporting.Filter{Status: models.StatusAvailable})
	if err != nil {
		return Digest{}, fmt.Errorf("load stock groups: %w", err)
	}
	totals, err := s.source.Totals(ctx)
	if err != nil {
		return Digest{}, fmt.Errorf("load stock totals: %w", err)
	}
	summary, err := s.source.Expiring(ctx)
	if err != nil {
		return Digest{}, fmt.Errorf("load expiring summary: %w", err)
	}
	return render(s.now(), groups, totals, summary), nil
}

// SendDigest delivers the digest when it is actionable. It reports whether
// a message went out.
func (s *Service) SendDigest(ctx context.Context) (bool, error) {
	digest, err := s.Digest(ctx)
	if err != nil {
		return false, err
	}
	if !digest.Actionable {
		s.logger.Info("nothing to alert")
		return false, nil
	}
	if s.client == nil || s.recipient == "" {
		s.logger.Info("whatsapp alerts disabled, digest logged only", zap.String("digest", digest.Text))
		return false, nil
	}

	if err := s.SendOutbound(ctx, models.OutboundMessage{To: s.recipient, Message: digest.Text}); err != nil {
		return false, err
	}
	s.logger.Info("stock digest sent", zap.String("to", s.recipient))
	return true, nil
}

// SendOutbound pushes an arbitrary operator notification.
func (s *Service) SendOutbound(ctx context.Context, msg models.OutboundMessage) error {
	if s.client == nil {
		return fmt.Errorf("%w: whatsapp alerts are not configured", models.ErrInvalidOperation)
	}
	if strings.TrimSpace(msg.To) == "" || strings.TrimSpace(msg.Message) == "" {
		return fmt.Errorf("%w: to and message are required", models.ErrValidation)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         msg.To,
		Body:       msg.Message,
		PreviewURL: msg.PreviewURL,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrRepository, err)
	}
	return nil
}

func render(now time.Time, groups, totals []reporting.Group, summary reporting.ExpiringSummary) Digest {
	var b strings.Builder
	fmt.Fprintf(&b, "Resumo do estoque - %s\n", now.Format("02/01/2006"))
	fmt.Fprintf(&b, "Vencidos: %d\n", summary.Expired)
	fmt.Fprintf(&b, "Vencendo em breve: %d\n", summary.Count)
	if summary.Nearest != nil {
		fmt.Fprintf(&b, "Mais próximo: %s em %d dias\n", summary.Nearest.Label(), summary.NearestDays)
	}

	actionable := summary.Expired > 0 || summary.Count > 0

	var urgent []string
	for _, g := range groups {
		switch g.Expiry.Tier {
		case reporting.TierExpired:
			urgent = append(urgent, fmt.Sprintf("- %s (Lote: %s): vencido", g.Product, g.Batch))
		case reporting.TierCritical:
			urgent = append(urgent, fmt.Sprintf("- %s (Lote: %s): %d dias", g.Product, g.Batch, *g.Expiry.DaysRemaining))
		}
	}
	if len(urgent) > 0 {
		b.WriteString("\nCríticos:\n")
		b.WriteString(strings.Join(urgent, "\n"))
		b.WriteString("\n")
	}

	var low []string
	for _, g := range totals {
		if g.IsLowStock {
			low = append(low, fmt.Sprintf("- %s: %s %s (mínimo %s)", g.Product, g.TotalQuantity, g.Unit, g.MinimumStock))
		}
	}
	if len(low) > 0 {
		actionable = true
		fmt.Fprintf(&b, "\nEstoque baixo (%d):\n", len(low))
		b.WriteString(strings.Join(low, "\n"))
		b.WriteString("\n")
	}

	return Digest{Text: strings.TrimRight(b.String(), "\n"), Actionable: actionable}
}
