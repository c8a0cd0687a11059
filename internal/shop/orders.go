package shop

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

const mailTimeout = 30 * time.Second

type Orders struct {
	store  OrderStore
	ledger StockLedger
	mailer OrderMailer
	log    *zap.Logger
}

// NewOrders accepte un ledger et un mailer nil quand ces backends ne sont pas configurés.
func NewOrders(s OrderStore, ledger StockLedger, mailer OrderMailer, log *zap.Logger) *Orders {
	return &Orders{store: s, ledger: ledger, mailer: mailer, log: log}
}

// Place transforme le panier de l'acheteur en commande : création de la commande,
// décrément du stock et suppression du panier dans une seule transaction.
func (o *Orders) Place(ctx context.Context, buyer models.Claims) (*models.Order, error) {
	var order *models.Order
	err := o.store.Transaction(ctx, func(ctx context.Context) error {
		if err := o.store.LockUser(ctx, buyer.ID); err != nil {
			return notFound(err, "user not found")
		}

		cart, err := o.store.FindCart(ctx, buyer.ID, true)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.EmptyCart()
		}
		if err != nil {
			return apperr.Internal(err)
		}
		if len(cart.Lines) == 0 {
			return apperr.EmptyCart()
		}

		order = &models.Order{
			OrderedByID: buyer.ID,
			CartTotal:   cart.CartTotal,
			OrderStatus: models.OrderStatusNotProcess,
			Lines:       make([]models.OrderLine, 0, len(cart.Lines)),
		}
		for _, line := range cart.Lines {
			order.Lines = append(order.Lines, models.OrderLine{ProductID: line.ProductID, Count: line.Count, Price: line.Price})
		}
		if err := o.store.CreateOrder(ctx, order); err != nil {
			return apperr.Internal(err)
		}

		for i, line := range cart.Lines {
			ok, err := o.store.DecrementStock(ctx, line.ProductID, line.Count)
			if err != nil {
				return apperr.Internal(err)
			}
			if !ok {
				return apperr.InsufficientStock(productName(line))
			}
			order.Lines[i].Product = line.Product
		}

		if _, err := o.store.DeleteCart(ctx, buyer.ID); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err)
	}

	o.recordMovements(ctx, order, models.MovementSale, "checkout")
	o.sendConfirmation(ctx, buyer.Email, order)
	return order, nil
}

func productName(line models.CartLine) string {
	if line.Product != nil && line.Product.Title != "" {
		return line.Product.Title
	}
	return line.ProductID
}

// ForUser renvoie les commandes de l'utilisateur, les plus récentes d'abord.
// found vaut false quand il n'en a aucune.
func (o *Orders) ForUser(ctx context.Context, userID string) ([]models.Order, bool, error) {
	orders, err := o.store.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, false, apperr.Internal(err)
	}
	return orders, len(orders) > 0, nil
}

func (o *Orders) All(ctx context.Context) ([]models.Order, error) {
	orders, err := o.store.AllOrders(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// ChangeStatus applique la table de transitions. Une annulation remet le stock en place.
func (o *Orders) ChangeStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.Order, error) {
	if orderID == "" {
		return nil, apperr.Validation("orderId is required")
	}
	if !next.Valid() {
		return nil, apperr.Validation("invalid order status %q", next)
	}

	var (
		order    *models.Order
		restored bool
	)
	err := o.store.Transaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = o.store.FindOrder(ctx, orderID)
		if err != nil {
			return notFound(err, "order not found")
		}
		current := order.OrderStatus
		if !current.CanTransition(next) {
			return apperr.New(apperr.CodeInvalidTransition, "cannot move order from %s to %s", current, next)
		}
		if current == next {
			return nil
		}

		if next == models.OrderStatusCancelled {
			for _, line := range order.Lines {
				if err := o.store.IncrementStock(ctx, line.ProductID, line.Count); err != nil {
					return apperr.Internal(err)
				}
			}
			restored = true
		}
		if err := o.store.UpdateOrderStatus(ctx, orderID, next); err != nil {
			return notFound(err, "order not found")
		}
		order.OrderStatus = next
		return nil
	})
	if err != nil {
		return nil, passThrough(err)
	}

	if restored {
		o.recordMovements(ctx, order, models.MovementReturn, "cancellation")
	}
	return order, nil
}

// StatusTable expose la table des transitions autorisées.
func (o *Orders) StatusTable() map[models.OrderStatus][]models.OrderStatus {
	return models.OrderTransitions
}

func (o *Orders) recordMovements(ctx context.Context, order *models.Order, kind models.MovementType, reason string) {
	if o.ledger == nil {
		return
	}
	now := time.Now().UTC()
	movements := make([]models.StockMovement, 0, len(order.Lines))
	for _, line := range order.Lines {
		movements = append(movements, models.StockMovement{
			ProductID: line.ProductID,
			OrderID:   order.ID,
			UserID:    order.OrderedByID,
			Type:      kind,
			Quantity:  line.Count,
			Reason:    reason,
			CreatedAt: now,
		})
	}
	if err := o.ledger.RecordMovements(context.WithoutCancel(ctx), movements); err != nil {
		o.log.Warn("journal de stock", zap.String("order_id", order.ID), zap.String("type", string(kind)), zap.Error(err))
	}
}

func (o *Orders) sendConfirmation(ctx context.Context, to string, order *models.Order) {
	if o.mailer == nil || to == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
	go func() {
		defer cancel()
		if err := o.mailer.SendOrderConfirmation(ctx, to, order); err != nil {
			o.log.Warn("e-mail de confirmation", zap.String("order_id", order.ID), zap.Error(err))
		}
	}()
}
