package printer

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"pedidos-agent/internal/domain"
)

const lineWidth = 32

// Receipt renders an order as a plain-text ticket for a 32-column thermal
// printer.
func Receipt(o domain.Order) []byte {
	var b strings.Builder
	rule := strings.Repeat("=", lineWidth)
	b.WriteString(rule + "\n")
	b.WriteString(center("PEDIDOS EXPRESS") + "\n")
	b.WriteString(rule + "\n")
	if o.DisplayID != "" {
		b.WriteString("Pedido: " + o.DisplayID + "\n")
	} else if o.DailySequence != nil {
		fmt.Fprintf(&b, "Pedido: #%d\n", *o.DailySequence)
	} else {
		b.WriteString("Pedido: " + o.ID + "\n")
	}
	if o.OrderType != "" {
		b.WriteString("Tipo: " + o.OrderType + "\n")
	}
	b.WriteString("Cliente: " + o.CustomerName + "\n")
	if o.CustomerPhone != "" {
		b.WriteString("Fone: " + o.CustomerPhone + "\n")
	}
	if o.DeliveryAddress != "" {
		b.WriteString("Endereco: " + o.DeliveryAddress + "\n")
	}
	b.WriteString(strings.Repeat("-", lineWidth) + "\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%dx %s\n", it.Quantity, it.Name)
		b.WriteString(rightAlign(fmt.Sprintf("R$ %.2f", it.Price*float64(it.Quantity))) + "\n")
	}
	b.WriteString(strings.Repeat("-", lineWidth) + "\n")
	if o.Subtotal != nil {
		fmt.Fprintf(&b, "Subtotal: R$ %.2f\n", *o.Subtotal)
	}
	if o.DeliveryFee != nil {
		fmt.Fprintf(&b, "Entrega:  R$ %.2f\n", *o.DeliveryFee)
	}
	fmt.Fprintf(&b, "TOTAL:    R$ %.2f\n", o.TotalPrice)
	if o.PaymentMethod != "" {
		b.WriteString("Pagamento: " + o.PaymentMethod + "\n")
	}
	if o.ChangeFor != nil {
		fmt.Fprintf(&b, "Troco para: R$ %.2f\n", *o.ChangeFor)
	}
	b.WriteString(rule + "\n")
	b.WriteString(o.CreatedAt + "\n")
	b.WriteString("\n\n\n")
	return []byte(b.String())
}

// TestTicket is the payload for a connectivity test print.
func TestTicket() []byte {
	rule := strings.Repeat("=", lineWidth)
	return []byte(rule + "\n" + center("TESTE DE IMPRESSAO") + "\n" + rule + "\n" +
		time.Now().Format("02/01/2006 15:04:05") + "\n\n\n\n")
}

func center(s string) string {
	if len(s) >= lineWidth {
		return s
	}
	pad := (lineWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func rightAlign(s string) string {
	if len(s) >= lineWidth {
		return s
	}
	return strings.Repeat(" ", lineWidth-len(s)) + s
}

// Console writes tickets to a writer. Default transport in dev, where no
// physical printer is attached.
type Console struct {
	mu  sync.Mutex
	Out io.Writer
}

func NewConsole() *Console { return &Console{Out: os.Stdout} }

func (c *Console) Print(o domain.Order) error { return c.write(Receipt(o)) }
func (c *Console) TestPrint() error           { return c.write(TestTicket()) }

func (c *Console) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.Out.Write(data)
	return err
}

// Network writes tickets to a raw-socket receipt printer. Each job dials a
// fresh connection; the printers in the field drop idle sockets.
type Network struct {
	Addr    string
	Timeout time.Duration
}

func (p *Network) Print(o domain.Order) error { return p.write(Receipt(o)) }
func (p *Network) TestPrint() error           { return p.write(TestTicket()) }

func (p *Network) write(data []byte) error {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	conn, err := net.DialTimeout("tcp", p.Addr, timeout)
	if err != nil {
		return fmt.Errorf("printer unreachable: %w", err)
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer write failed: %w", err)
	}
	return nil
}
