package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ticket-tracker-backend/internal/db"
	"ticket-tracker-backend/internal/model"
)

// Database is the local-database backend driver. It keeps one table per
// entity kind plus the single-row settings table, and a separate
// archived_tickets table for the archive partition. All multi-table writes
// run inside a single gorm transaction so a failure never leaves a hybrid
// state visible to subsequent reads.
type Database struct {
	db *gorm.DB
}

// NewDatabase creates a database driver on an initialized gorm handle.
func NewDatabase(gdb *gorm.DB) *Database {
	return &Database{db: gdb}
}

// IsEmpty reports whether the ticket, system and settings tables are all
// empty. Used once at boot to decide whether to seed sample data.
func (d *Database) IsEmpty(ctx context.Context) (bool, error) {
	var tickets, systems, settings int64
	if err := d.db.WithContext(ctx).Model(&model.Ticket{}).Count(&tickets).Error; err != nil {
		return false, fmt.Errorf("count tickets: %w", err)
	}
	if err := d.db.WithContext(ctx).Model(&model.System{}).Count(&systems).Error; err != nil {
		return false, fmt.Errorf("count systems: %w", err)
	}
	if err := d.db.WithContext(ctx).Model(&model.Settings{}).Count(&settings).Error; err != nil {
		return false, fmt.Errorf("count settings: %w", err)
	}
	return tickets == 0 && systems == 0 && settings == 0, nil
}

// LoadAll reads every active-partition table into a snapshot. A missing
// settings row falls back to the default settings value.
func (d *Database) LoadAll(ctx context.Context) (*model.Snapshot, error) {
	tx := d.db.WithContext(ctx)

	snap := &model.Snapshot{}
	if err := tx.Order("created_at DESC").Find(&snap.Tickets).Error; err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}
	if err := tx.Find(&snap.Systems).Error; err != nil {
		return nil, fmt.Errorf("load systems: %w", err)
	}
	if err := tx.Find(&snap.Watchstations).Error; err != nil {
		return nil, fmt.Errorf("load watchstations: %w", err)
	}
	if err := tx.Find(&snap.Circuits).Error; err != nil {
		return nil, fmt.Errorf("load circuits: %w", err)
	}
	if err := tx.Find(&snap.Users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	var settings model.Settings
	err := tx.First(&settings, "id = ?", model.SettingsID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		settings = model.DefaultSettings()
	case err != nil:
		return nil, fmt.Errorf("load settings: %w", err)
	}

	snap.Settings = settings
	snap.NextTicketNumber = settings.NextTicketNumber
	snap.LastModified = settings.LastModified
	snap.LastModifiedBy = settings.LastModifiedBy
	return snap, nil
}

// Persist replaces the entire active partition with the snapshot's contents:
// every table is cleared and bulk-inserted inside one transaction.
func (d *Database) Persist(ctx context.Context, snap *model.Snapshot) error {
	settings := normalizeSettings(snap)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.Ticket{}, &model.System{}, &model.Watchstation{},
			&model.Circuit{}, &model.User{}, &model.Settings{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return fmt.Errorf("clear table: %w", err)
			}
		}

		if len(snap.Tickets) > 0 {
			tickets := make([]model.Ticket, len(snap.Tickets))
			for i, t := range snap.Tickets {
				tickets[i] = t.Clone()
				tickets[i].IsArchived = false
			}
			if err := tx.CreateInBatches(tickets, 100).Error; err != nil {
				return fmt.Errorf("insert tickets: %w", err)
			}
		}
		if len(snap.Systems) > 0 {
			if err := tx.CreateInBatches(snap.Systems, 100).Error; err != nil {
				return fmt.Errorf("insert systems: %w", err)
			}
		}
		if len(snap.Watchstations) > 0 {
			if err := tx.CreateInBatches(snap.Watchstations, 100).Error; err != nil {
				return fmt.Errorf("insert watchstations: %w", err)
			}
		}
		if len(snap.Circuits) > 0 {
			if err := tx.CreateInBatches(snap.Circuits, 100).Error; err != nil {
				return fmt.Errorf("insert circuits: %w", err)
			}
		}
		if len(snap.Users) > 0 {
			if err := tx.CreateInBatches(snap.Users, 100).Error; err != nil {
				return fmt.Errorf("insert users: %w", err)
			}
		}
		if err := tx.Create(&settings).Error; err != nil {
			return fmt.Errorf("insert settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// LoadArchived reads the archive partition.
func (d *Database) LoadArchived(ctx context.Context) (*model.ArchiveSnapshot, error) {
	arch := &model.ArchiveSnapshot{}
	err := d.db.WithContext(ctx).
		Table(db.ArchivedTicketsTable).
		Order("created_at DESC").
		Find(&arch.Tickets).Error
	if err != nil {
		return nil, fmt.Errorf("load archived tickets: %w", err)
	}
	arch.LastModified = time.Now().UTC()
	return arch, nil
}

// PersistArchived replaces the archive partition with the snapshot's tickets.
// Every stored ticket carries the archived flag.
func (d *Database) PersistArchived(ctx context.Context, arch *model.ArchiveSnapshot) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(db.ArchivedTicketsTable).Where("1 = 1").Delete(&model.Ticket{}).Error; err != nil {
			return fmt.Errorf("clear archived tickets: %w", err)
		}
		if len(arch.Tickets) > 0 {
			tickets := make([]model.Ticket, len(arch.Tickets))
			for i, t := range arch.Tickets {
				tickets[i] = t.Clone()
				tickets[i].IsArchived = true
			}
			if err := tx.Table(db.ArchivedTicketsTable).CreateInBatches(tickets, 100).Error; err != nil {
				return fmt.Errorf("insert archived tickets: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist archive snapshot: %w", err)
	}
	return nil
}

// ArchiveOne atomically moves one ticket from the active table to the
// archive table, setting the archived flag. Returns ErrNotFound when the
// ticket is absent from the active partition.
func (d *Database) ArchiveOne(ctx context.Context, ticketID string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return archiveInTx(tx, ticketID)
	})
}

// ArchiveBatch moves a set of tickets into the archive partition as one
// transaction; either every listed ticket moves or none do.
func (d *Database) ArchiveBatch(ctx context.Context, ticketIDs []string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ticketIDs {
			if err := archiveInTx(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func archiveInTx(tx *gorm.DB, ticketID string) error {
	var ticket model.Ticket
	if err := tx.First(&ticket, "id = ?", ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("archive ticket %s: %w", ticketID, ErrNotFound)
		}
		return fmt.Errorf("archive ticket %s: %w", ticketID, err)
	}

	ticket.IsArchived = true
	if err := tx.Table(db.ArchivedTicketsTable).Create(&ticket).Error; err != nil {
		return fmt.Errorf("archive ticket %s: %w", ticketID, err)
	}
	if err := tx.Delete(&model.Ticket{}, "id = ?", ticketID).Error; err != nil {
		return fmt.Errorf("archive ticket %s: %w", ticketID, err)
	}
	return nil
}

// RestoreOne atomically moves one ticket from the archive table back to the
// active table, clearing the archived flag. Returns ErrNotFound when the
// ticket is absent from the archive partition.
func (d *Database) RestoreOne(ctx context.Context, ticketID string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket model.Ticket
		err := tx.Table(db.ArchivedTicketsTable).First(&ticket, "id = ?", ticketID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("restore ticket %s: %w", ticketID, ErrNotFound)
			}
			return fmt.Errorf("restore ticket %s: %w", ticketID, err)
		}

		ticket.IsArchived = false
		if err := tx.Create(&ticket).Error; err != nil {
			return fmt.Errorf("restore ticket %s: %w", ticketID, err)
		}
		if err := tx.Table(db.ArchivedTicketsTable).Delete(&model.Ticket{}, "id = ?", ticketID).Error; err != nil {
			return fmt.Errorf("restore ticket %s: %w", ticketID, err)
		}
		return nil
	})
}

// Reset destroys and recreates the schema, then seeds the sample dataset.
func (d *Database) Reset(ctx context.Context) error {
	tx := d.db.WithContext(ctx)
	err := tx.Migrator().DropTable(
		&model.Ticket{}, &model.System{}, &model.Watchstation{},
		&model.Circuit{}, &model.User{}, &model.Settings{},
		&model.StoredFileHandle{}, db.ArchivedTicketsTable,
	)
	if err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	if err := db.Migrate(d.db); err != nil {
		return fmt.Errorf("recreate schema: %w", err)
	}
	return d.Seed(ctx)
}

// Seed loads the sample dataset into an empty database.
func (d *Database) Seed(ctx context.Context) error {
	sample := SampleSnapshot()
	if err := d.Persist(ctx, sample); err != nil {
		return fmt.Errorf("seed sample data: %w", err)
	}
	return nil
}

// RememberHandle stores the file handle so the file strategy can be restored
// on the next boot.
func (d *Database) RememberHandle(ctx context.Context, h Handle) error {
	record := model.StoredFileHandle{
		ID:      model.StoredHandleID,
		Path:    h.Path,
		Name:    h.Name,
		SavedAt: time.Now().UTC(),
	}
	if err := d.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("remember file handle: %w", err)
	}
	return nil
}

// RecallHandle returns the remembered file handle, or nil when none is
// stored.
func (d *Database) RecallHandle(ctx context.Context) (*Handle, error) {
	var record model.StoredFileHandle
	err := d.db.WithContext(ctx).First(&record, "id = ?", model.StoredHandleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("recall file handle: %w", err)
	}
	return &Handle{Path: record.Path, Name: record.Name}, nil
}

// ForgetHandle clears the remembered file handle. Forgetting a handle that
// was never stored is a no-op.
func (d *Database) ForgetHandle(ctx context.Context) error {
	err := d.db.WithContext(ctx).Delete(&model.StoredFileHandle{}, "id = ?", model.StoredHandleID).Error
	if err != nil {
		return fmt.Errorf("forget file handle: %w", err)
	}
	return nil
}

// normalizeSettings builds the settings row written alongside a snapshot,
// filling defaults for anything the snapshot left blank.
func normalizeSettings(snap *model.Snapshot) model.Settings {
	defaults := model.DefaultSettings()
	settings := snap.Settings
	settings.ID = model.SettingsID

	if settings.CompanyName == "" {
		settings.CompanyName = defaults.CompanyName
	}
	if settings.TicketPrefix == "" {
		settings.TicketPrefix = defaults.TicketPrefix
	}
	if settings.AutoRefresh <= 0 {
		settings.AutoRefresh = defaults.AutoRefresh
	}
	if settings.MaxSystems <= 0 {
		settings.MaxSystems = defaults.MaxSystems
	}
	if settings.ArchiveDays <= 0 {
		settings.ArchiveDays = defaults.ArchiveDays
	}
	if snap.NextTicketNumber > 0 {
		settings.NextTicketNumber = snap.NextTicketNumber
	} else if settings.NextTicketNumber <= 0 {
		settings.NextTicketNumber = defaults.NextTicketNumber
	}
	settings.LastModified = snap.LastModified
	if settings.LastModified.IsZero() {
		settings.LastModified = time.Now().UTC()
	}
	settings.LastModifiedBy = snap.LastModifiedBy
	if settings.LastModifiedBy == "" {
		settings.LastModifiedBy = defaults.LastModifiedBy
	}
	return settings
}
