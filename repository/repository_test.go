package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"storefront/models"
	"storefront/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return gormDB, mock
}

func newOrder() *models.Order {
	return &models.Order{
		OrderNumber:   "DEMO-1700000000000-ABC123",
		Status:        models.OrderStatusProcessing,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: "cash_on_delivery",
		Subtotal:      49.98,
		Shipping:      25,
		Total:         74.98,
		Items: []models.OrderItem{{
			ProductID:    uuid.New(),
			ProductTitle: "Plain Tee",
			ProductSlug:  "plain-tee",
			Quantity:     2,
			UnitPrice:    24.99,
			TotalPrice:   49.98,
		}},
	}
}

func TestCreateWithItems_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)
	order := newOrder()
	orderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.CreateWithItems(context.Background(), order)
	assert.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, orderID, order.Items[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithItems_ItemFailureRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnError(errors.New("foreign key violation"))
	mock.ExpectRollback()

	err := repo.CreateWithItems(context.Background(), newOrder())
	assert.ErrorContains(t, err, "insert order items")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithItems_DuplicateOrderNumber(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_orders_order_number"})
	mock.ExpectRollback()

	err := repo.CreateWithItems(context.Background(), newOrder())
	assert.ErrorIs(t, err, repository.ErrDuplicateOrderNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByOrderNumber(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders" WHERE order_number = $1`)).
		WithArgs("DEMO-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByOrderNumber(context.Background(), "DEMO-1")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestFindByUserID_Paginates(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)
	userID := uuid.New()
	orderID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders" WHERE user_id = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE user_id = $1 ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "order_number", "status", "total", "created_at"}).
			AddRow(orderID, userID, "DEMO-2", "processing", 74.98, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items" WHERE "order_items"."order_id" = $1`)).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_title"}).AddRow(uuid.New(), orderID, "Plain Tee"))

	orders, total, err := repo.FindByUserID(context.Background(), userID, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, orders, 1)
	assert.Equal(t, "DEMO-2", orders[0].OrderNumber)
	require.Len(t, orders[0].Items, 1)
}

func TestUpdateFields_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateFields(context.Background(), uuid.New(), map[string]interface{}{"status": "shipped"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAddressCreate_DefaultClearsOthers(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormAddressRepository(gormDB)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "addresses" SET "is_default"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "addresses"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.Address{
		UserID: userID, Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US", IsDefault: true,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressDelete_PromotesNewest(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormAddressRepository(gormDB)
	userID, deletedID, nextID := uuid.New(), uuid.New(), uuid.New()
	columns := []string{"id", "user_id", "street", "is_default"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "addresses" WHERE id = $1 AND user_id = $2`)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(deletedID, userID, "1 Main St", true))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "addresses"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "addresses" WHERE user_id = $1 ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(nextID, userID, "2 Side St", false))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "addresses" SET "is_default"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), deletedID, userID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressDelete_NonDefaultKeepsOthers(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormAddressRepository(gormDB)
	userID, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "addresses"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "is_default"}).AddRow(id, userID, false))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "addresses"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), id, userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDefault_UnknownAddress(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormAddressRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "addresses"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "addresses"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SetDefault(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductFind_Filters(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)
	minPrice := 10.0

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT "products"."id",`)).
		WithArgs("shirt", minPrice, `[{"name":"Red"}]`, `[{"name":"Blue"}]`, `["M"]`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "current_price", "images", "in_stock"}).
			AddRow(uuid.New(), "Plain Tee", "plain-tee", 24.99, `["tee.png"]`, true))

	products, err := repo.Find(context.Background(), repository.ProductFilter{
		CategorySlug: "shirt",
		MinPrice:     &minPrice,
		Colors:       []string{"Red", "Blue"},
		Sizes:        []string{"M"},
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, []string{"tee.png"}, products[0].Images)
}

func TestSeederRunOnce(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormSeederRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "categories"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "seeders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.RunOnce(context.Background(), "categories", func(tx *gorm.DB) error {
		return tx.Create(&models.Category{Name: "Shirt", Slug: "shirt"}).Error
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
