package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockMovementRepository(t *testing.T) (*GormMovementRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormMovementRepository(gormDB), mock, mockDB
}

func movementColumns() []string {
	return []string{
		"id", "branch_id", "item_id", "kind", "movement_type",
		"quantity", "unit_cost_foreign", "unit_cost_base", "balance_after",
		"source_type", "source_id", "reason", "actor_id", "movement_date",
	}
}

func TestGormMovementRepository_Create(t *testing.T) {
	t.Run("appends a movement", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		movement, err := stock.NewMovement(
			uuid.New(), uuid.New(), stock.ItemKindIngredient,
			stock.MovementTypeReceipt,
			decimal.NewFromInt(100),
			decimal.NewFromFloat(2.5), decimal.NewFromInt(30000),
			decimal.NewFromInt(100),
			stock.SourceTypeSupplierReceipt, "GRN-001",
			uuid.New(),
		)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "stock_movements"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Create(context.Background(), movement)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMovementRepository_FindByID(t *testing.T) {
	t.Run("returns not found for missing movement", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		movementID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE id = \$1`).
			WithArgs(movementID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		movement, err := repo.FindByID(context.Background(), movementID)

		assert.Error(t, err)
		assert.Nil(t, movement)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMovementRepository_FindBySource(t *testing.T) {
	t.Run("finds movements for a source document", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		branchID := uuid.New()
		itemID := uuid.New()
		actorID := uuid.New()

		rows := sqlmock.NewRows(movementColumns()).
			AddRow(
				uuid.New(), branchID, itemID, stock.ItemKindIngredient, stock.MovementTypeTransferOut,
				decimal.NewFromInt(20), decimal.NewFromFloat(2.5), decimal.NewFromInt(30000), decimal.NewFromInt(30),
				stock.SourceTypeTransfer, "TR-20260901-0001", "", actorID, time.Now(),
			).
			AddRow(
				uuid.New(), branchID, itemID, stock.ItemKindIngredient, stock.MovementTypeWriteOff,
				decimal.NewFromInt(2), decimal.NewFromFloat(2.5), decimal.NewFromInt(30000), decimal.NewFromInt(30),
				stock.SourceTypeTransfer, "TR-20260901-0001", "transit shortfall", actorID, time.Now(),
			)

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE source_type = \$1 AND source_id = \$2`).
			WithArgs(stock.SourceTypeTransfer, "TR-20260901-0001").
			WillReturnRows(rows)

		movements, err := repo.FindBySource(context.Background(), stock.SourceTypeTransfer, "TR-20260901-0001")

		assert.NoError(t, err)
		assert.Len(t, movements, 2)
		assert.Equal(t, stock.MovementTypeTransferOut, movements[0].MovementType)
		assert.Equal(t, stock.MovementTypeWriteOff, movements[1].MovementType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMovementRepository_CountByKey(t *testing.T) {
	t.Run("counts movements for a key", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements" WHERE branch_id = \$1 AND item_id = \$2 AND kind = \$3`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		count, err := repo.CountByKey(context.Background(), uuid.New(), uuid.New(), stock.ItemKindIngredient)

		assert.NoError(t, err)
		assert.Equal(t, int64(12), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMovementRepository_SumDeltaByKey(t *testing.T) {
	t.Run("sums signed deltas", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN movement_type IN .+ THEN quantity ELSE -quantity END\), 0\) FROM "stock_movements"`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("38"))

		total, err := repo.SumDeltaByKey(context.Background(), uuid.New(), uuid.New(), stock.ItemKindIngredient)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(38)), "got %s", total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
