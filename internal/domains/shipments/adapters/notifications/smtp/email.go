// Package smtp delivers shipment notification emails over plain SMTP.
package smtp

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

// Config carries the SMTP connection settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

var _ ports.Notifier = (*Notifier)(nil)

// Notifier sends shipment lifecycle emails. Delivery failures are the
// caller's problem to absorb; this type just reports them.
type Notifier struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewNotifier(cfg Config) *Notifier {
	return &Notifier{cfg: cfg, send: smtp.SendMail}
}

func (n *Notifier) SendShipmentCreationNotification(ctx context.Context, note ports.CreationNotification) error {
	subject := fmt.Sprintf("Envío creado exitosamente - Código de seguimiento: %s", note.TrackingCode)
	body := strings.Join([]string{
		"¡Tu envío ha sido creado con éxito!",
		"",
		fmt.Sprintf("Código de seguimiento: %s", note.TrackingCode),
		fmt.Sprintf("Destinatario: %s", note.RecipientName),
		"Estado actual: En espera",
		"",
		"Puedes hacer seguimiento de tu envío en cualquier momento ingresando a nuestra plataforma con tu código de seguimiento.",
		"",
		"Este es un correo automático, por favor no respondas a este mensaje.",
	}, "\r\n")
	return n.deliver(ctx, note.Email, subject, body)
}

func (n *Notifier) SendShipmentAssignmentNotification(ctx context.Context, note ports.AssignmentNotification) error {
	subject := fmt.Sprintf("Tu envío está en camino - Código de seguimiento: %s", note.TrackingCode)
	body := strings.Join([]string{
		"¡Tu envío ha sido asignado a una ruta!",
		"",
		fmt.Sprintf("Código de seguimiento: %s", note.TrackingCode),
		fmt.Sprintf("Origen: %s", note.Origin),
		fmt.Sprintf("Destino: %s", note.Destination),
		fmt.Sprintf("Tiempo estimado: %s", note.EstimatedTime),
		"",
		"Este es un correo automático, por favor no respondas a este mensaje.",
	}, "\r\n")
	return n.deliver(ctx, note.Email, subject, body)
}

func (n *Notifier) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.cfg.Host == "" || to == "" {
		return fmt.Errorf("smtp notifier misconfigured: host=%q to=%q", n.cfg.Host, to)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n",
		n.cfg.From, to, subject, body)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
