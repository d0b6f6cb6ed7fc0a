package service

import (
	"fmt"
	"strings"

	"storefront-service/internal/model"

	"github.com/shopspring/decimal"
)

const (
	messageDateLayout = "02/01/2006 03:04 PM"
	messageTimeLayout = "03:04 PM"
	estimatedWait     = "30-45 minutos"
)

func money(d decimal.Decimal) string {
	return "S/" + d.StringFixed(2)
}

func adminOrderMessage(o *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 *NUEVO PEDIDO #%d*\n\n", o.ID)
	fmt.Fprintf(&b, "👤 Cliente: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "📞 Teléfono: %s\n", o.CustomerPhone)
	fmt.Fprintf(&b, "📍 Dirección: %s\n", o.CustomerAddress)
	if o.CustomerComments != "" {
		fmt.Fprintf(&b, "💬 Comentarios: %s\n", o.CustomerComments)
	}

	b.WriteString("\n📦 *Productos:*\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "• %s x%d - %s\n", item.ProductName(), item.Quantity, money(item.Subtotal()))
		if item.Product != nil {
			fmt.Fprintf(&b, "  📊 Stock restante: %d\n", item.Product.Stock)
		}
	}

	fmt.Fprintf(&b, "\n💰 *Total: %s*\n", money(o.Total))
	fmt.Fprintf(&b, "📅 Fecha: %s\n", o.CreatedAt.Format(messageDateLayout))
	fmt.Fprintf(&b, "⏰ Hora: %s", o.CreatedAt.Format(messageTimeLayout))
	return b.String()
}

func customerConfirmationMessage(o *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ *PEDIDO CONFIRMADO #%d*\n\n", o.ID)
	fmt.Fprintf(&b, "¡Hola %s!\n\n", o.CustomerName)
	b.WriteString("Tu pedido ha sido *confirmado* y está siendo preparado.\n\n")
	b.WriteString("📋 *Resumen de tu pedido:*\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "• %s x%d - %s\n", item.ProductName(), item.Quantity, money(item.Subtotal()))
	}

	fmt.Fprintf(&b, "\n💰 *Total: %s*\n", money(o.Total))
	fmt.Fprintf(&b, "📍 *Dirección de entrega:* %s\n", o.CustomerAddress)
	fmt.Fprintf(&b, "📅 *Fecha del pedido:* %s\n\n", o.CreatedAt.Format(messageDateLayout))
	if o.CustomerComments != "" {
		fmt.Fprintf(&b, "💬 *Tus comentarios:* %s\n\n", o.CustomerComments)
	}
	b.WriteString("🚚 *Estado:* Confirmado - En preparación\n")
	fmt.Fprintf(&b, "⏰ *Tiempo estimado:* %s\n\n", estimatedWait)
	b.WriteString("¡Gracias por elegirnos! Te contactaremos cuando esté listo para entrega. 😊")
	return b.String()
}
