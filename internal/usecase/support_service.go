package usecase

import (
	"context"
	"strings"

	"pedidos-agent/internal/domain"
)

type SupportGateway interface {
	PriorityConversations(ctx context.Context) ([]domain.PriorityConversation, error)
	SendWhatsApp(ctx context.Context, phone, message string) error
	SendCustomerMessage(ctx context.Context, phone, message string) error
}

// SupportService relays customer support traffic: the priority queue and
// outbound messages, both through the official WhatsApp channel and the
// order bot.
type SupportService struct {
	Gateway SupportGateway
}

func (s *SupportService) PriorityConversations(ctx context.Context) ([]domain.PriorityConversation, error) {
	return s.Gateway.PriorityConversations(ctx)
}

func (s *SupportService) SendWhatsApp(ctx context.Context, phone, message string) error {
	if err := validateMessage(phone, message); err != nil {
		return err
	}
	return s.Gateway.SendWhatsApp(ctx, phone, message)
}

func (s *SupportService) SendCustomerMessage(ctx context.Context, phone, message string) error {
	if err := validateMessage(phone, message); err != nil {
		return err
	}
	return s.Gateway.SendCustomerMessage(ctx, phone, message)
}

func validateMessage(phone, message string) error {
	if strings.TrimSpace(phone) == "" {
		return ErrBadRequest("phone required")
	}
	if strings.TrimSpace(message) == "" {
		return ErrBadRequest("message required")
	}
	return nil
}
