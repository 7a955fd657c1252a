package controllers

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/app/resources"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/ctx"
	"github.com/rishavanand/bazario/pkg/event"
	"github.com/rishavanand/bazario/pkg/middleware"
	"github.com/rishavanand/bazario/pkg/resource"
	"github.com/rishavanand/bazario/pkg/response"
	"github.com/rishavanand/bazario/pkg/sse"
	"github.com/rishavanand/bazario/pkg/ws"
)

// OrderController serves order listings, the admin status update, and the
// per-buyer SSE stream.
type OrderController struct {
	service *services.OrderService
	users   *repositories.UserRepository
}

// NewOrderController builds the controller with the default dependencies.
func NewOrderController() *OrderController {
	return &OrderController{
		service: services.NewOrderService(),
		users:   repositories.NewUserRepository(),
	}
}

// MyOrders handles GET /api/auth/orders.
func (c *OrderController) MyOrders(cx *ctx.Context) {
	buyerID := middleware.UserIDFromCtx(cx.Context())
	orders, err := c.service.ByBuyer(cx.Context(), buyerID)
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"orders": resource.Items(resources.Order, orders)})
}

// AllOrders handles GET /api/auth/all-orders (admin). Buyer names are
// joined in so the dashboard can render them without extra requests.
func (c *OrderController) AllOrders(cx *ctx.Context) {
	orders, err := c.service.All(cx.Context())
	if err != nil {
		cx.Error(err)
		return
	}

	names := map[string]string{}
	out := make([]resource.Map, 0, len(orders))
	for _, o := range orders {
		key := o.Buyer.Hex()
		name, ok := names[key]
		if !ok {
			if u, uErr := c.users.FindByID(cx.Context(), key); uErr == nil {
				name = u.Name
			}
			names[key] = name
		}
		out = append(out, resources.OrderWithBuyer(o, name))
	}

	cx.Success(response.M{"orders": out})
}

// UpdateStatus handles PUT /api/auth/order-status/{orderId} (admin).
func (c *OrderController) UpdateStatus(cx *ctx.Context) {
	var in services.StatusInput
	if !cx.BindJSON(&in) {
		return
	}

	order, err := c.service.UpdateStatus(cx.Context(), cx.Param("orderId"), in.Status)
	if err != nil {
		cx.Error(err)
		return
	}

	cx.Success(response.M{
		"message": "Order status updated",
		"order":   resource.Item(resources.Order, *order),
	})
}

// Stream handles GET /api/auth/orders/stream — an SSE feed of the caller's
// order status changes, with a 25s heartbeat to keep proxies from closing
// the connection.
func (c *OrderController) Stream(cx *ctx.Context) {
	buyerID := middleware.UserIDFromCtx(cx.Context())

	stream := sse.New(cx.W, cx.R)
	if stream == nil {
		return
	}

	updates := statusFeed.subscribe(buyerID)
	defer statusFeed.unsubscribe(updates)

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case order := <-updates:
			stream.Send("order.status_changed", resource.Item(resources.Order, *order)) //nolint:errcheck
		case <-heartbeat.C:
			stream.Comment("ping")
		case <-cx.R.Context().Done():
			return
		}
		if stream.IsClosed() {
			return
		}
	}
}

// ─── Status feed ──────────────────────────────────────────────────────────────

// statusBroker fans order status events out to per-buyer SSE subscribers.
type statusBroker struct {
	mu   sync.RWMutex
	subs map[chan *models.Order]string // channel -> buyer hex id
}

var statusFeed = &statusBroker{subs: map[chan *models.Order]string{}}

func (b *statusBroker) subscribe(buyerID string) chan *models.Order {
	ch := make(chan *models.Order, 8)
	b.mu.Lock()
	b.subs[ch] = buyerID
	b.mu.Unlock()
	return ch
}

func (b *statusBroker) unsubscribe(ch chan *models.Order) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

func (b *statusBroker) publish(order *models.Order) {
	buyer := order.Buyer.Hex()
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, id := range b.subs {
		if id != buyer {
			continue
		}
		select {
		case ch <- order:
		default:
			// Slow subscriber — drop rather than block the event loop.
		}
	}
}

// RegisterOrderEvents wires the order lifecycle events to the websocket hub
// and the SSE status feed. Called once from the server bootstrap.
func RegisterOrderEvents(hub *ws.Hub) {
	broadcast := func(kind string, order *models.Order) {
		payload, err := json.Marshal(response.M{
			"event": kind,
			"order": resource.Item(resources.Order, *order),
		})
		if err != nil {
			return
		}
		hub.Broadcast <- payload
	}

	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		if order, ok := payload.(*models.Order); ok {
			broadcast(services.EventOrderCreated, order)
		}
	})
	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		if order, ok := payload.(*models.Order); ok {
			broadcast(services.EventOrderStatusChanged, order)
			statusFeed.publish(order)
		}
	})
}
