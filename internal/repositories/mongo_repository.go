package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"feira/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the Mongo repositories.
const (
	VendorsCollection  = "vendors"
	ProductsCollection = "products"
	OrdersCollection   = "orders"
)

var insertionOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "id", Value: 1}}

func mongoNotFound(err error, kind, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s %s: %w", kind, id, err)
}

// ─── Vendors ──────────────────────────────────────────────────────────────────

// MongoVendorRepository is a MongoDB implementation of VendorRepository.
type MongoVendorRepository struct {
	col *mongo.Collection
}

// NewMongoVendorRepository creates a new instance of MongoVendorRepository.
func NewMongoVendorRepository(db *mongo.Database) *MongoVendorRepository {
	return &MongoVendorRepository{col: db.Collection(VendorsCollection)}
}

func (r *MongoVendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = uuid.New().String()
	}
	if vendor.CreatedAt.IsZero() {
		vendor.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, vendor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("vendor %s: %w", vendor.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (r *MongoVendorRepository) findOne(ctx context.Context, key, value string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.col.FindOne(ctx, bson.M{key: value}).Decode(&vendor); err != nil {
		return nil, mongoNotFound(err, "vendor", value)
	}
	return &vendor, nil
}

func (r *MongoVendorRepository) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	return r.findOne(ctx, "id", id)
}

func (r *MongoVendorRepository) GetByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	return r.findOne(ctx, "email", email)
}

func (r *MongoVendorRepository) GetByStoreName(ctx context.Context, storeName string) (*models.Vendor, error) {
	return r.findOne(ctx, "nome_loja", storeName)
}

func (r *MongoVendorRepository) List(ctx context.Context) ([]models.Vendor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	vendors := []models.Vendor{}
	if err := cur.All(ctx, &vendors); err != nil {
		return nil, fmt.Errorf("failed to decode vendors: %w", err)
	}
	return vendors, nil
}

// ─── Products ─────────────────────────────────────────────────────────────────

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	col *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{col: db.Collection(ProductsCollection)}
}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&product); err != nil {
		return nil, mongoNotFound(err, "product", id)
	}
	return &product, nil
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *MongoProductRepository) ListByVendor(ctx context.Context, vendorID string, skip, limit int) ([]models.Product, int64, error) {
	filter := bson.M{"vendor_id": vendorID}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products of vendor %s: %w", vendorID, err)
	}
	opts := options.Find().SetSort(insertionOrder).SetSkip(int64(skip)).SetLimit(int64(limit))
	products, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *MongoProductRepository) ListInStock(ctx context.Context, vendorID string) ([]models.Product, error) {
	filter := bson.M{"vendor_id": vendorID, "quantidade": bson.M{"$gt": 0}}
	return r.find(ctx, filter, options.Find().SetSort(insertionOrder))
}

func (r *MongoProductRepository) CountInStock(ctx context.Context, vendorID string) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"vendor_id": vendorID, "quantidade": bson.M{"$gt": 0}})
	if err != nil {
		return 0, fmt.Errorf("failed to count in-stock products of vendor %s: %w", vendorID, err)
	}
	return count, nil
}

func (r *MongoProductRepository) Categories(ctx context.Context, vendorID string) ([]string, error) {
	values, err := r.col.Distinct(ctx, "categoria", bson.M{"vendor_id": vendorID})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories of vendor %s: %w", vendorID, err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	update := bson.M{"$set": bson.M{
		"nome":       product.Name,
		"descricao":  product.Description,
		"preco":      product.Price,
		"quantidade": product.Quantity,
		"categoria":  product.Category,
		"imagem":     product.Image,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := r.col.FindOneAndUpdate(ctx, bson.M{"id": product.ID, "vendor_id": product.VendorID}, update, opts).Decode(&updated)
	if err != nil {
		return mongoNotFound(err, "product", product.ID)
	}
	product.CreatedAt = updated.CreatedAt
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, vendorID, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id, "vendor_id": vendorID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// DecrementStock relies on the filter matching only while enough units remain.
func (r *MongoProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"id": id, "quantidade": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"quantidade": -qty}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock of product %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		count, err := r.col.CountDocuments(ctx, bson.M{"id": id})
		if err != nil {
			return fmt.Errorf("failed to check product %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("product %s: %w", id, ErrInsufficientStock)
	}
	return nil
}

func (r *MongoProductRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"quantidade": qty}})
	if err != nil {
		return fmt.Errorf("failed to increment stock of product %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// ─── Orders ───────────────────────────────────────────────────────────────────

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
// Items are embedded in the order document.
type MongoOrderRepository struct {
	col *mongo.Collection
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(OrdersCollection)}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, vendorID, id string) (*models.Order, error) {
	var order models.Order
	if err := r.col.FindOne(ctx, bson.M{"id": id, "vendor_id": vendorID}).Decode(&order); err != nil {
		return nil, mongoNotFound(err, "order", id)
	}
	return &order, nil
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) ListByVendor(ctx context.Context, vendorID string, skip, limit int) ([]models.Order, int64, error) {
	filter := bson.M{"vendor_id": vendorID}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders of vendor %s: %w", vendorID, err)
	}
	opts := options.Find().SetSort(insertionOrder).SetSkip(int64(skip)).SetLimit(int64(limit))
	orders, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *MongoOrderRepository) ListAllByVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"vendor_id": vendorID}, options.Find().SetSort(insertionOrder))
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, vendorID, id string, from, to models.OrderStatus) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"id": id, "vendor_id": vendorID, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		count, err := r.col.CountDocuments(ctx, bson.M{"id": id, "vendor_id": vendorID})
		if err != nil {
			return fmt.Errorf("failed to check order %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("order %s: %w", id, ErrStatusChanged)
	}
	return nil
}
