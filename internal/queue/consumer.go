package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yahyaabohashemstu/yukleme/internal/notify"
)

// StartNotificationConsumer connects to RabbitMQ, declares the
// loading.report queue (durable), and starts consuming messages. Each
// message is formatted and sent to the Telegram chat. The function runs a
// reconnect loop; it keeps running and logs any processing errors while
// rejecting the offending message so the server continues operating.
// Delivery failures are never requeued: a lost notification must not wedge
// the queue.
func StartNotificationConsumer(bot *notify.Telegram) error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("report-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, bot); err != nil {
			log.Printf("report-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, bot *notify.Telegram) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("report-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(reportQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(reportQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, bot); err != nil {
			log.Printf("report-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, bot *notify.Telegram) error {
	var ev LoadingReportEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if !bot.Enabled() {
		log.Printf("report-consumer: telegram disabled, dropping notification for report %s", ev.LoadingID)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := bot.Send(ctx, FormatReportMessage(ev)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	log.Printf("report-consumer: notification sent for report %s (%s)", ev.LoadingID, ev.Classification)
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// FormatReportMessage renders the Telegram HTML message for a report
// event.  Wording follows the chat language used by the warehouse team.
func FormatReportMessage(ev LoadingReportEvent) string {
	title := "🆕 <b>Yeni Rapor Oluşturuldu</b>"
	if ev.Classification == "urgent-update" {
		title = "⚠️ <b>Rapor Güncellendi (Görüntülendikten Sonra)</b>"
	}

	shortID := ev.LoadingID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	plates := orDash(ev.Plate1)
	if ev.Plate2 != "" {
		plates += " / " + ev.Plate2
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "📄 <b>Rapor ID:</b> <code>%s</code>\n", shortID)
	fmt.Fprintf(&b, "🕒 <b>Yükleme Zamanı:</b> %s\n", orDash(ev.CreatedAt))
	fmt.Fprintf(&b, "📅 <b>Tarih:</b> %s\n", orDash(ev.LoadingDate))
	fmt.Fprintf(&b, "🚛 <b>Plaka:</b> %s\n", plates)
	fmt.Fprintf(&b, "👤 <b>Sürücü:</b> %s\n\n", orDash(ev.DriverName))
	b.WriteString("📦 <b>Yük Bilgisi:</b>\n")
	fmt.Fprintf(&b, "• Ürün Çeşidi: %d\n", ev.ProductKinds)
	fmt.Fprintf(&b, "• Toplam Adet: %d\n", ev.TotalQuantity)
	fmt.Fprintf(&b, "• Toplam Palet: %d\n\n", ev.TotalPallets)
	fmt.Fprintf(&b, "📍 <b>Varış:</b> %s (%s)\n", orDash(ev.Destination), orDash(ev.Country))
	fmt.Fprintf(&b, "👤 <b>Müşteri:</b> %s", orDash(ev.Customer))
	return b.String()
}
