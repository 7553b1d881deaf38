package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// publisher 是 NATSPublisher 依赖的 nats 子集，便于测试
type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher 把事件以 JSON 发布到 NATS，subject 为 <prefix>.<type>
type NATSPublisher struct {
	conn   publisher
	nc     *nats.Conn
	prefix string
}

// NewNATSPublisher 连接 NATS 并创建发布器
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("taxo"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	p := newNATSPublisher(nc, prefix)
	p.nc = nc
	return p, nil
}

func newNATSPublisher(conn publisher, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = "taxo"
	}
	return &NATSPublisher{
		conn:   conn,
		prefix: strings.TrimSuffix(prefix, "."),
	}
}

// Subject 返回事件对应的 subject
func (p *NATSPublisher) Subject(t Type) string {
	return p.prefix + "." + string(t)
}

// Notify 发布事件，失败只记录日志
func (p *NATSPublisher) Notify(ctx context.Context, e *Event) {
	logger := zerolog.Ctx(ctx)

	data, err := json.Marshal(e)
	if err != nil {
		logger.Error().Err(err).Str("event_type", string(e.Type)).Msg("Failed to marshal event")
		return
	}
	if err := p.conn.Publish(p.Subject(e.Type), data); err != nil {
		logger.Warn().
			Err(err).
			Str("event_id", e.ID).
			Str("event_type", string(e.Type)).
			Msg("Failed to publish event")
	}
}

// Close 关闭自己创建的连接
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return err
	}
	return nil
}
