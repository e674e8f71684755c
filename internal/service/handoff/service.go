package handoff

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tecnostore/internal/domain"
)

const (
	greeting = "Hello! I'd like to place an order:\n\n"
	closing  = "Please confirm availability and provide payment details."
)

// Opener performs the navigation to a hand-off link.
type Opener interface {
	Open(ctx context.Context, link string) error
}

// Config describes where orders are sent.
type Config struct {
	BaseURL  string
	Phone    string
	Currency string
}

// Order is a formatted cart summary and the link that carries it.
type Order struct {
	Message string            `json:"message"`
	URL     string            `json:"url"`
	Total   int64             `json:"total"`
	Lines   []domain.CartLine `json:"lines"`
}

// Service turns cart lines into a chat deep link.
type Service struct {
	cfg    Config
	opener Opener
	lang   language.Tag
	logger *zap.Logger
}

func New(cfg Config, opener Opener, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://wa.me"
	}
	if cfg.Currency == "" {
		cfg.Currency = "UGX"
	}
	return &Service{cfg: cfg, opener: opener, lang: language.English, logger: logger}
}

// Amount renders an integer amount with the currency code and thousands
// separators, e.g. "UGX 1,250,000".
func (s *Service) Amount(v int64) string {
	return message.NewPrinter(s.lang).Sprintf("%s %d", s.cfg.Currency, v)
}

// Format builds the order message.
func (s *Service) Format(lines []domain.CartLine, total int64) string {
	var b strings.Builder
	b.WriteString(greeting)
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s x %d - %s\n", l.Name, l.Quantity, s.Amount(l.Subtotal()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", s.Amount(total))
	b.WriteString(closing)
	return b.String()
}

// Link returns the deep link for msg. The text is escaped like a browser's
// encodeURIComponent: spaces become %20 and !'()*~ are left as is.
func (s *Service) Link(msg string) string {
	return fmt.Sprintf("%s/%s?text=%s", s.cfg.BaseURL, s.cfg.Phone, escapeComponent(msg))
}

func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// Send formats the order, opens its link and returns it. An empty cart is
// rejected before anything is built.
func (s *Service) Send(ctx context.Context, lines []domain.CartLine, total int64) (Order, error) {
	if len(lines) == 0 {
		return Order{}, domain.ErrEmptyCart
	}
	msg := s.Format(lines, total)
	order := Order{
		Message: msg,
		URL:     s.Link(msg),
		Total:   total,
		Lines:   lines,
	}
	if s.opener != nil {
		if err := s.opener.Open(ctx, order.URL); err != nil {
			s.logger.Error("handoff: open", zap.Error(err))
			return order, fmt.Errorf("open hand-off link: %w", err)
		}
	}
	s.logger.Info("handoff: order sent", zap.Int("lines", len(lines)), zap.Int64("total", total))
	return order, nil
}
