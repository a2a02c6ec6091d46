package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// OrderNotification contains order data for Telegram notification.
type OrderNotification struct {
	OrderID       string
	OrderNumber   string
	Items         []OrderItemNotification
	TotalAmount   float64
	Currency      string
	UserName      string
	UserPhone     string
	PaymentMethod string
	Status        string
}

// OrderItemNotification contains order item data.
type OrderItemNotification struct {
	Name     string
	Quantity int
	Price    float64
	Currency string
}

// NotifyNewOrder formats and sends a new-order message to the admin chat.
func (s *TelegramService) NotifyNewOrder(n OrderNotification) error {
	var b strings.Builder
	b.WriteString("<b>New order</b> ")
	b.WriteString(n.OrderNumber)
	b.WriteString("\n")
	for _, item := range n.Items {
		fmt.Fprintf(&b, "%s x%d  %s\n", item.Name, item.Quantity, FormatPrice(item.Price, item.Currency))
	}
	fmt.Fprintf(&b, "Total: <b>%s</b>\n", FormatPrice(n.TotalAmount, n.Currency))
	fmt.Fprintf(&b, "Customer: %s (%s)\n", n.UserName, n.UserPhone)
	fmt.Fprintf(&b, "Payment: %s | Status: %s", n.PaymentMethod, n.Status)
	return s.SendToAdmin(b.String())
}

// ReturnNotification contains return-request data for Telegram notification.
type ReturnNotification struct {
	ReturnNumber string
	OrderNumber  string
	ProductName  string
	ActionType   string
	IssueType    string
	Status       string
	RefundAmount float64
	Currency     string
}

// NotifyReturnEvent formats and sends a return-workflow message to the
// admin chat. Used both for new requests and for status changes.
func (s *TelegramService) NotifyReturnEvent(n ReturnNotification) error {
	var b strings.Builder
	b.WriteString("<b>Return</b> ")
	b.WriteString(n.ReturnNumber)
	fmt.Fprintf(&b, " (order %s)\n", n.OrderNumber)
	fmt.Fprintf(&b, "%s — %s / %s\n", n.ProductName, n.ActionType, n.IssueType)
	fmt.Fprintf(&b, "Status: <b>%s</b>", n.Status)
	if n.RefundAmount > 0 {
		fmt.Fprintf(&b, "\nRefund: %s", FormatPrice(n.RefundAmount, n.Currency))
	}
	return s.SendToAdmin(b.String())
}

// FormatPrice formats price with currency and thousand separators.
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}

	whole := int64(amount)
	frac := int64((amount-float64(whole))*100 + 0.5)

	digits := fmt.Sprintf("%d", whole)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	formatted := strings.Join(parts, " ")
	if frac > 0 {
		formatted = fmt.Sprintf("%s.%02d", formatted, frac)
	}
	return formatted + " " + currency
}
