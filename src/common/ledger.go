package common

import (
	"errors"
	"log"
	"sync"

	"eventsphere/src/db"
	"eventsphere/src/models"
	"eventsphere/src/monitoring"
	"eventsphere/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The ledger owns the (total, reserved, sold) counters of every ticket
// type. All mutation funnels through a guarded UPDATE whose WHERE clause
// re-checks the invariant, plus an in-process mutex keyed by ticket-type id
// so concurrent callers in this process serialize before touching the row.
// reserved + sold <= total holds under any interleaving.

var ledgerLocks sync.Map

func ledgerLock(ticketTypeId uint) *sync.Mutex {
	mu, _ := ledgerLocks.LoadOrStore(ticketTypeId, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// TryReserve atomically claims qty seats of a ticket type. On success the
// reserved counter is incremented and a hold token is returned; on failure
// nothing changes. Two racing requests for the last seat cannot both win.
func TryReserve(ticketTypeId uint, qty uint) (string, error) {
	if qty < 1 {
		return "", ErrInsufficientInventory
	}
	mu := ledgerLock(ticketTypeId)
	mu.Lock()
	defer mu.Unlock()

	var token string
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.TicketType{}).
			Where("id = ? AND total - reserved - sold >= ?", ticketTypeId, qty).
			Update("reserved", gorm.Expr("reserved + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.
				Model(&models.TicketType{}).
				Where("id = ?", ticketTypeId).
				Count(&count).
				Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrUnknownTicketType
			}
			return ErrInsufficientInventory
		}
		hold := models.InventoryHold{
			Token:        uuid.NewString(),
			TicketTypeID: ticketTypeId,
			Qty:          qty,
			State:        types.HOLD_HELD,
		}
		if err := tx.Create(&hold).Error; err != nil {
			return err
		}
		token = hold.Token
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientInventory) {
			monitoring.InventoryRejected(ticketTypeId)
		}
		return "", err
	}
	return token, nil
}

// Commit moves the held quantity from reserved to sold. Committing an
// already-committed or released token is a no-op, so retried confirmations
// are harmless.
func Commit(token string) error {
	return settleHold(token, types.HOLD_COMMITTED)
}

// Release gives the held quantity back without selling it. Idempotent per
// token, same as Commit.
func Release(token string) error {
	return settleHold(token, types.HOLD_RELEASED)
}

func settleHold(token string, state types.HoldState) error {
	db := db.GetDb()
	var hold models.InventoryHold
	if err := db.
		Where(&models.InventoryHold{Token: token}).
		First(&hold).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if hold.State != types.HOLD_HELD {
		log.Printf("[ledger] hold %s already %s, skipping", token, hold.State)
		return nil
	}

	// Lock ordering matches TryReserve: mutex first, then transaction.
	mu := ledgerLock(hold.TicketTypeID)
	mu.Lock()
	defer mu.Unlock()

	return db.Transaction(func(tx *gorm.DB) error {
		// The guarded flip is what makes replays no-ops under races.
		res := tx.
			Model(&models.InventoryHold{}).
			Where(&models.InventoryHold{Token: token, State: types.HOLD_HELD}).
			Update("state", state)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		counters := map[string]any{
			"reserved": gorm.Expr("reserved - ?", hold.Qty),
		}
		if state == types.HOLD_COMMITTED {
			counters["sold"] = gorm.Expr("sold + ?", hold.Qty)
		}
		if err := tx.
			Model(&models.TicketType{}).
			Where("id = ? AND reserved >= ?", hold.TicketTypeID, hold.Qty).
			Updates(counters).
			Error; err != nil {
			return err
		}
		return nil
	})
}

// TicketSeats reports the live counter triple of a ticket type.
func TicketSeats(ticketTypeId uint) (available uint, reserved uint, sold uint, err error) {
	db := db.GetDb()
	var tt models.TicketType
	if err := db.
		Where(&models.TicketType{ID: ticketTypeId}).
		First(&tt).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, 0, ErrUnknownTicketType
		}
		return 0, 0, 0, err
	}
	return tt.Total - tt.Reserved - tt.Sold, tt.Reserved, tt.Sold, nil
}
