package services

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"farm-market/internal/domain"
	"farm-market/internal/infra/mongodb"
	rabbit "farm-market/internal/infra/rabbitmq"
	"farm-market/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type OrderService struct {
	repo        repository.OrderRepository
	publisher   rabbit.PublisherInterface
	history     mongodb.StatusHistoryInterface
	redisClient CacheClient
	cacheTTL    time.Duration
	deliveryFee decimal.Decimal
	idPrefix    string
	group       singleflight.Group
	listGen     atomic.Uint64
	now         func() time.Time
}

func NewOrderService(r repository.OrderRepository, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		repo:        r,
		publisher:   pub,
		cacheTTL:    defaultCacheTTL,
		deliveryFee: domain.DefaultDeliveryFee,
		idPrefix:    domain.DefaultOrderIDPrefix,
		now:         time.Now,
	}
}

func (u *OrderService) SetRedisClient(client CacheClient) {
	u.redisClient = client
}

func (u *OrderService) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		u.cacheTTL = ttl
	}
}

func (u *OrderService) SetHistory(h mongodb.StatusHistoryInterface) {
	u.history = h
}

func (u *OrderService) SetDeliveryFee(fee decimal.Decimal) {
	u.deliveryFee = fee
}

// SetOrderIDPrefix sets the prefix placed order ids must carry.
func (u *OrderService) SetOrderIDPrefix(prefix string) {
	if prefix != "" {
		u.idPrefix = prefix
	}
}

func (u *OrderService) DeliveryFee() decimal.Decimal {
	return u.deliveryFee
}

// PlaceOrder stores a new Pending order for the calling buyer. The total is
// recomputed here; a client total that disagrees is rejected.
func (u *OrderService) PlaceOrder(ctx context.Context, actor domain.Actor, in *domain.Order) (*domain.Order, error) {
	if actor.Role != domain.RoleBuyer {
		return nil, domain.ErrRoleRequired
	}
	if in == nil {
		return nil, domain.ErrEmptyCart
	}
	if in.BuyerEmail != "" && !actor.Owns(in.BuyerEmail) {
		return nil, domain.ErrNotOwner
	}

	lines := make([]domain.OrderLine, len(in.Items))
	for i, l := range in.Items {
		l.ID, l.OrderRef = 0, 0
		lines[i] = l
	}
	order := domain.NewOrder(in.OrderID, actor.Email, in.ShippingDetails, in.Payment, lines, u.deliveryFee, u.now().UTC())
	if err := domain.ValidateOrder(order); err != nil {
		return nil, err
	}
	if domain.OrderIDPrefix(order.OrderID) != u.idPrefix {
		return nil, &domain.ValidationError{
			Fields: []string{"orderId"},
			Reason: fmt.Sprintf("order id must start with %s", u.idPrefix),
		}
	}
	if !in.Total.IsZero() && !in.Total.Equal(order.Total) {
		return nil, &domain.ValidationError{
			Fields: []string{"total"},
			Reason: fmt.Sprintf("total does not match items and delivery fee (expected %s)", order.Total.String()),
		}
	}

	if err := u.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	u.invalidateLists(ctx, order.BuyerEmail)
	u.recordHistory(ctx, domain.StatusChange{
		OrderID:   order.OrderID,
		NewStatus: domain.StatusPending,
		ChangedBy: order.BuyerEmail,
		Role:      domain.RoleBuyer,
		Timestamp: order.OrderDate,
	})
	u.publish(ctx, domain.EventOrderPlaced, domain.OrderPlacedEvent{
		OrderID:    order.OrderID,
		BuyerEmail: order.BuyerEmail,
		Total:      order.Total,
		Lines:      len(order.Items),
		OrderDate:  order.OrderDate,
	})
	return order, nil
}

// GetOrder returns an order visible to actor. Buyers only see their own
// orders; anything else is reported as not found.
func (u *OrderService) GetOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	o, err := u.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	switch actor.Role {
	case domain.RoleProducer:
	case domain.RoleBuyer:
		if !actor.Owns(o.BuyerEmail) {
			return nil, domain.ErrOrderNotFound
		}
	default:
		return nil, domain.ErrRoleRequired
	}
	return o, nil
}

// ListOrdersForBuyer returns the buyer's orders, newest first.
func (u *OrderService) ListOrdersForBuyer(ctx context.Context, actor domain.Actor, buyerEmail string) ([]domain.Order, error) {
	if !actor.Owns(buyerEmail) {
		return nil, domain.ErrNotOwner
	}
	email := domain.NormalizeEmail(buyerEmail)
	return u.cachedOrders(ctx, buyerOrdersKey(email), func(ctx context.Context) ([]domain.Order, error) {
		return u.repo.FindByBuyer(ctx, email)
	})
}

// ListPendingOrders returns every Pending order, oldest first.
func (u *OrderService) ListPendingOrders(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if actor.Role != domain.RoleProducer {
		return nil, domain.ErrRoleRequired
	}
	return u.cachedOrders(ctx, pendingOrdersKey, func(ctx context.Context) ([]domain.Order, error) {
		return u.repo.FindByStatus(ctx, domain.StatusPending)
	})
}

func (u *OrderService) CancelOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	return u.transition(ctx, actor, orderID, domain.StatusCancelled)
}

func (u *OrderService) ConfirmOrder(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	return u.transition(ctx, actor, orderID, domain.StatusConfirmed)
}

// OrderHistory lists the recorded status changes of an order, oldest first.
func (u *OrderService) OrderHistory(ctx context.Context, actor domain.Actor, orderID string) ([]domain.StatusChange, error) {
	if _, err := u.GetOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}
	if u.history == nil {
		return []domain.StatusChange{}, nil
	}
	return u.history.ListByOrder(ctx, orderID)
}

// transition applies a status change with a conditional write. When two
// actors race, the store lets exactly one of them through.
func (u *OrderService) transition(ctx context.Context, actor domain.Actor, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	o, err := u.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := domain.CheckTransition(actor.Role, from, to); err != nil {
		return nil, err
	}
	if err := u.repo.UpdateStatus(ctx, o.OrderID, from, to); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	o.Status = to
	o.UpdatedAt = now

	u.invalidateLists(ctx, o.BuyerEmail)
	changedBy := domain.NormalizeEmail(actor.Email)
	u.recordHistory(ctx, domain.StatusChange{
		OrderID:   o.OrderID,
		OldStatus: from,
		NewStatus: to,
		ChangedBy: changedBy,
		Role:      actor.Role,
		Timestamp: now,
	})
	u.publish(ctx, domain.EventForStatus(to), domain.OrderStatusChangedEvent{
		OrderID:    o.OrderID,
		BuyerEmail: o.BuyerEmail,
		OldStatus:  from,
		NewStatus:  to,
		ChangedBy:  changedBy,
		ChangedAt:  now,
	})
	return o, nil
}

// cachedOrders serves a list from the current cache generation. Loads that
// race a mutation never fill the generation readers see after it.
func (u *OrderService) cachedOrders(ctx context.Context, key string, load func(context.Context) ([]domain.Order, error)) ([]domain.Order, error) {
	versioned, cacheable := cacheGeneration(ctx, u.redisClient, key)
	if cacheable {
		var cached []domain.Order
		if cacheGet(ctx, u.redisClient, versioned, &cached) {
			return cached, nil
		}
	}
	flight := fmt.Sprintf("%s#%d", key, u.listGen.Load())
	v, err, _ := u.group.Do(flight, func() (any, error) {
		orders, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		if cacheable {
			cacheSet(ctx, u.redisClient, versioned, orders, u.cacheTTL)
		}
		return orders, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Order), nil
}

// invalidateLists runs after a committed mutation. Callers arriving later
// start a new in-process flight and read a new cache generation.
func (u *OrderService) invalidateLists(ctx context.Context, buyerEmail string) {
	u.listGen.Add(1)
	cacheBump(ctx, u.redisClient, buyerOrdersKey(domain.NormalizeEmail(buyerEmail)), pendingOrdersKey)
}

func (u *OrderService) recordHistory(ctx context.Context, change domain.StatusChange) {
	if u.history == nil {
		return
	}
	if err := u.history.Record(ctx, change); err != nil {
		log.Printf("orders: record history for %s: %v", change.OrderID, err)
	}
}

func (u *OrderService) publish(ctx context.Context, pattern string, evt any) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, pattern, evt); err != nil {
		log.Printf("orders: failed to publish %s: %v", pattern, err)
	}
}
