package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/example/topupadmin/internal/cache"
	"github.com/example/topupadmin/internal/lifecycle"
	"github.com/example/topupadmin/internal/models"
)

// OrderBackend is the subset of the platform API used by the order view.
type OrderBackend interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
	CancelOrder(ctx context.Context, id string) error
}

// OrderView is the order page: the platform's order plus the actions the
// operator may take on it.
type OrderView struct {
	Order        *models.Order        `json:"order"`
	Actions      []lifecycle.Action   `json:"actions"`
	NextStatuses []models.OrderStatus `json:"next_statuses"`
	CanCancel    bool                 `json:"can_cancel"`
}

// OrderService backs the order detail page.
type OrderService struct {
	backend  OrderBackend
	cache    *cache.QueryCache
	auditor  Auditor
	inflight *inflight
}

func NewOrderService(backend OrderBackend, queryCache *cache.QueryCache, auditor Auditor) *OrderService {
	if auditor == nil {
		auditor = NopAuditor()
	}
	return &OrderService{
		backend:  backend,
		cache:    queryCache,
		auditor:  auditor,
		inflight: newInflight(),
	}
}

// Get returns the order view, from cache unless refresh is set.
func (s *OrderService) Get(ctx context.Context, id string, refresh bool) (*OrderView, error) {
	order, err := cache.Fetch(ctx, s.cache, ResourceOrder, url.Values{"id": {id}}, refresh,
		func(ctx context.Context) (*models.Order, error) {
			return s.backend.GetOrder(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	return newOrderView(order), nil
}

// Transition moves the order to target through the generic status endpoint.
// The gate is checked against freshly loaded state; refused transitions never
// reach the platform.
func (s *OrderService) Transition(ctx context.Context, actor, id string, target models.OrderStatus) (*OrderView, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	return s.mutate(ctx, actor, id, models.AuditOrderStatus, map[string]any{"status": target}, target,
		func(order *models.Order) error {
			if !lifecycle.CanTransition(order.Status, target) {
				return fmt.Errorf("%w: order %s cannot move from %s to %s", ErrTransitionNotAllowed, id, order.Status, target)
			}
			return s.backend.SetOrderStatus(ctx, id, target)
		})
}

// Cancel uses the dedicated cancel endpoint. It is offered whenever the order
// is not cancelled, refunded or fulfilled.
func (s *OrderService) Cancel(ctx context.Context, actor, id string) (*OrderView, error) {
	return s.mutate(ctx, actor, id, models.AuditOrderCancel, nil, models.OrderCancelled,
		func(order *models.Order) error {
			if !lifecycle.CanCancel(order.Status) {
				return fmt.Errorf("%w: order %s is %s and cannot be cancelled", ErrTransitionNotAllowed, id, order.Status)
			}
			return s.backend.CancelOrder(ctx, id)
		})
}

// mutate runs apply against fresh state and audits every attempt, including
// ones refused before reaching the platform. Once the platform has accepted
// the change a failed refetch still reports success, with next as the status.
func (s *OrderService) mutate(ctx context.Context, actor, id, action string, payload map[string]any, next models.OrderStatus, apply func(*models.Order) error) (*OrderView, error) {
	audit := AuditRecord{Actor: actor, Action: action, TargetIDs: []string{id}}
	if payload != nil {
		audit.Payload = payload
	}

	release, err := s.inflight.acquire("order:" + id)
	if err != nil {
		s.recordFailure(ctx, audit, err)
		return nil, err
	}
	defer release()

	current, err := s.Get(ctx, id, true)
	if err != nil {
		s.recordFailure(ctx, audit, err)
		return nil, err
	}

	audit.Payload = withFrom(payload, current.Order.Status)
	if err := apply(current.Order); err != nil {
		s.recordFailure(ctx, audit, err)
		return nil, err
	}
	s.auditor.Record(ctx, audit)

	s.cache.Invalidate(ResourceOrder)
	log.Ctx(ctx).Info().Str("order_id", id).Str("action", action).Str("actor", actor).Msg("order mutated")

	view, err := s.Get(ctx, id, true)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("order_id", id).Msg("order refetch after mutation failed")
		applied := *current.Order
		applied.Status = next
		return newOrderView(&applied), nil
	}
	return view, nil
}

func (s *OrderService) recordFailure(ctx context.Context, audit AuditRecord, err error) {
	audit.Err = err
	s.auditor.Record(ctx, audit)
	log.Ctx(ctx).Warn().Err(err).Str("order_id", audit.TargetIDs[0]).Str("action", audit.Action).Msg("order mutation failed")
}

func withFrom(payload map[string]any, from models.OrderStatus) map[string]any {
	out := map[string]any{"from": from}
	for k, v := range payload {
		out[k] = v
	}
	return out
}

func newOrderView(order *models.Order) *OrderView {
	return &OrderView{
		Order:        order,
		Actions:      lifecycle.Actions(order.Status),
		NextStatuses: lifecycle.NextStatuses(order.Status),
		CanCancel:    lifecycle.CanCancel(order.Status),
	}
}
