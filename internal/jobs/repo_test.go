package jobs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUndefinedColumn(t *testing.T) {
	drift := &pgconn.PgError{
		Code:    "42703",
		Message: `column "trade_year" of relation "jobs" does not exist`,
	}
	if !IsUndefinedColumn(drift) {
		t.Fatal("42703 should be recognized")
	}
	if !IsUndefinedColumn(fmt.Errorf("insert job: %w", drift)) {
		t.Fatal("wrapped 42703 should be recognized")
	}
	if IsUndefinedColumn(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation is not a column error")
	}
	if IsUndefinedColumn(errors.New("connection refused")) {
		t.Fatal("plain errors are not column errors")
	}
}

func TestInsertParamsHasTradeFields(t *testing.T) {
	if (InsertParams{}).HasTradeFields() {
		t.Fatal("empty params carry no trade data")
	}
	if (InsertParams{TradeMake: strPtr("")}).HasTradeFields() {
		t.Fatal("empty trade strings do not count")
	}
	if !(InsertParams{TradeYear: intPtr(2019)}).HasTradeFields() {
		t.Fatal("trade year counts")
	}
	if !(InsertParams{TradeTransmission: strPtr("manual")}).HasTradeFields() {
		t.Fatal("trade transmission counts")
	}
}
