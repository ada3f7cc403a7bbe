package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-mem-market/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-market/internal/app/core/usecase"
)

const (
	// DefaultExchange 預設的 topic exchange
	DefaultExchange = "market_events"
	// DefaultRoutingKey 購買完成事件的 routing key
	DefaultRoutingKey = "market.purchase.completed"

	dialTimeout = 10 * time.Second
)

// PurchaseMessage 發布到 RabbitMQ 的購買事件內容
type PurchaseMessage struct {
	TransactionID string    `json:"transaction_id"`
	Sequence      uint64    `json:"sequence"`
	Buyer         string    `json:"buyer"`
	Seller        string    `json:"seller"`
	Item          string    `json:"item"`
	Qty           int       `json:"qty"`
	Total         string    `json:"total"`
	Status        string    `json:"status"`
	Date          string    `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewPurchaseMessage 由交易組出事件內容，金額以十進位字串表示
func NewPurchaseMessage(tran domain.Transaction) PurchaseMessage {
	return PurchaseMessage{
		TransactionID: tran.TransactionID.String(),
		Sequence:      tran.Sequence,
		Buyer:         tran.Buyer,
		Seller:        tran.Seller,
		Item:          tran.Item,
		Qty:           tran.Qty,
		Total:         tran.Total.String(),
		Status:        string(tran.Status),
		Date:          tran.DateString(),
		Timestamp:     tran.Date,
	}
}

// Publisher 透過 AMQP 發布購買事件
type Publisher struct {
	mu         sync.Mutex
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	exchange   string
	routingKey string
	log        zerolog.Logger
}

// NewPublisher 連線到 RabbitMQ 並宣告 durable topic exchange
//
// 參數:
//
//	amqpURL: amqp:// 或 amqps:// 連線字串
//	exchange, routingKey: 空字串時使用預設值
//	log: 記錄重開 channel 等狀況
func NewPublisher(amqpURL, exchange, routingKey string, log zerolog.Logger) (*Publisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	if routingKey == "" {
		routingKey = DefaultRoutingKey
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := declareExchange(ch, exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:       conn,
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		log:        log.With().Str("component", "rabbitmq_publisher").Logger(),
	}, nil
}

func (p *Publisher) PublishPurchase(ctx context.Context, tran domain.Transaction) error {
	body, err := json.Marshal(NewPurchaseMessage(tran))
	if err != nil {
		return fmt.Errorf("marshal purchase event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    tran.TransactionID.String(),
		Timestamp:    time.Now(),
		Body:         body,
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg)
	if err == nil {
		return nil
	}

	// channel 關閉後重開一次再重送
	p.log.Warn().Err(err).Str("exchange", p.exchange).Msg("publish failed; reopening channel")
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return errors.Join(err, chErr)
	}
	p.channel = ch
	if exErr := declareExchange(ch, p.exchange); exErr != nil {
		return errors.Join(err, exErr)
	}
	return p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg)
}

// Close 關閉 channel 與連線
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Fallback RabbitMQ 連不上時使用，只記錄不發送
type Fallback struct {
	log zerolog.Logger
}

func NewFallback(log zerolog.Logger) *Fallback {
	return &Fallback{log: log.With().Str("component", "rabbitmq_publisher").Str("mode", "fallback").Logger()}
}

func (f *Fallback) PublishPurchase(_ context.Context, tran domain.Transaction) error {
	f.log.Debug().Str("transaction_id", tran.TransactionID.String()).Msg("publish skipped")
	return nil
}

func (f *Fallback) Close() {}

func declareExchange(ch *amqp091.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	)
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("amqp url scheme must be amqp:// or amqps://")
	}
	return clean, nil
}

var (
	_ usecase.Publisher = (*Publisher)(nil)
	_ usecase.Publisher = (*Fallback)(nil)
)
