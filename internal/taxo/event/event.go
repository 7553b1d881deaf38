// Package event 定义分类引擎的生命周期通知
package event

import (
	"context"
	"sync"
	"time"

	"github.com/jimyag/taxo/pkg/idgen"
)

// Type 事件类型
type Type string

const (
	TaxonomyRegistered   Type = "taxonomy.registered"
	TaxonomyUnregistered Type = "taxonomy.unregistered"
	TermCreated          Type = "term.created"
	TermUpdated          Type = "term.updated"
	TermDeleted          Type = "term.deleted"
	ObjectTermsChanged   Type = "object.terms_changed"
)

// Event 生命周期事件
type Event struct {
	ID                 string    `json:"id"`
	Type               Type      `json:"type"`
	Taxonomy           string    `json:"taxonomy"`
	TermID             uint64    `json:"term_id,omitempty"`
	TermTaxonomyID     uint64    `json:"term_taxonomy_id,omitempty"`
	ObjectID           uint64    `json:"object_id,omitempty"`
	TermTaxonomyIDs    []uint64  `json:"term_taxonomy_ids,omitempty"`
	OldTermTaxonomyIDs []uint64  `json:"old_term_taxonomy_ids,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// New 创建事件并分配 ID
func New(t Type, taxonomy string) *Event {
	id, err := idgen.GenerateEventID()
	if err != nil {
		id = ""
	}
	return &Event{
		ID:         id,
		Type:       t,
		Taxonomy:   taxonomy,
		OccurredAt: time.Now(),
	}
}

// Notifier 事件投递接口
// 投递顺序和重试策略由实现决定，Notify 不返回错误
type Notifier interface {
	Notify(ctx context.Context, e *Event)
}

// Handler 事件处理函数
type Handler func(ctx context.Context, e *Event)

// Nop 丢弃所有事件
type Nop struct{}

func (Nop) Notify(context.Context, *Event) {}

// Fanout 把事件依次投递给多个 Notifier
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, e *Event) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, e)
		}
	}
}

// Dispatcher 进程内的事件分发器
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	all      []Handler
}

// NewDispatcher 创建进程内分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe 订阅某一类事件
func (d *Dispatcher) Subscribe(t Type, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[t] = append(d.handlers[t], h)
}

// SubscribeAll 订阅所有事件
func (d *Dispatcher) SubscribeAll(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.all = append(d.all, h)
}

// Notify 同步调用订阅者
func (d *Dispatcher) Notify(ctx context.Context, e *Event) {
	d.mu.RLock()
	handlers := make([]Handler, 0, len(d.handlers[e.Type])+len(d.all))
	handlers = append(handlers, d.handlers[e.Type]...)
	handlers = append(handlers, d.all...)
	d.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
}
