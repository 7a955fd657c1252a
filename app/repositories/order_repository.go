package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/database"
)

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository returns a repository bound to the orders collection.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{col: database.Collection("orders")}
}

// NewOrderRepositoryWith binds the repository to an explicit collection.
func NewOrderRepositoryWith(col *mongo.Collection) *OrderRepository {
	return &OrderRepository{col: col}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.StatusNotProcessed
	}

	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "create order", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

// ByBuyer returns the buyer's orders, newest first.
func (r *OrderRepository) ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(buyerID)
	if err != nil {
		return nil, apperr.BadRequest("invalid buyer id")
	}
	return r.find(ctx, bson.M{"buyer": oid})
}

// All returns every order, newest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

// FindByID returns one order by hex id.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid order id")
	}

	var order models.Order
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "find order", err)
	}
	return &order, nil
}

// UpdateStatus sets the status of an order and returns the updated document.
// The caller validates the status against the closed enum first.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid order id")
	}

	var order models.Order
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "update order status", err)
	}
	return &order, nil
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := r.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "find orders", err)
	}

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "decode orders", err)
	}
	return orders, nil
}
