package storage

import (
	"time"

	"ticket-tracker-backend/internal/model"
)

// SampleSnapshot builds the dataset seeded into an empty database so the
// application is usable on first boot. Timestamps are fixed so seeding is
// deterministic.
func SampleSnapshot() *model.Snapshot {
	settings := model.DefaultSettings()
	settings.NextTicketNumber = 1004
	settings.LastModified = time.Now().UTC()

	return &model.Snapshot{
		Tickets: []model.Ticket{
			{
				ID:             "TKT-1001",
				Title:          "Network connectivity issue in Building B",
				Description:    "Users in Building B are experiencing intermittent network connectivity issues. Multiple workstations affected.",
				Priority:       model.PriorityHigh,
				System:         "sys1616161671",
				AreaSupervisor: "Unassigned",
				Impact:         "Affects 15 users in the marketing department. Reduces productivity by approximately 30%.",
				Status:         model.StatusInProgress,
				CreatedAt:      seedTime("2025-03-15T13:45:22Z"),
				UpdatedAt:      seedTime("2025-03-15T14:30:10Z"),
				History: []model.HistoryEntry{
					{
						Action:    "Status Changed",
						Timestamp: seedTime("2025-03-15T14:30:10Z"),
						Details:   "Status changed from 'open' to 'in-progress'",
						User:      "System",
					},
					{
						Action:    "Ticket Created",
						Timestamp: seedTime("2025-03-15T13:45:22Z"),
						Details:   "Ticket was created",
						User:      "System",
					},
				},
			},
			{
				ID:             "TKT-1002",
				Title:          "Email server not sending external emails",
				Description:    "Users are unable to send emails to external domains. Internal email delivery is working normally.",
				Priority:       model.PriorityCritical,
				System:         "sys1616161672",
				AreaSupervisor: "Unassigned",
				Impact:         "Affects all staff (approximately 120 users). Preventing critical communications with clients and partners.",
				Status:         model.StatusResolved,
				CreatedAt:      seedTime("2025-03-14T09:22:15Z"),
				UpdatedAt:      seedTime("2025-03-14T16:45:30Z"),
				ResolvedAt:     seedTimePtr("2025-03-14T16:45:30Z"),
				History: []model.HistoryEntry{
					{
						Action:    "Status Changed",
						Timestamp: seedTime("2025-03-14T16:45:30Z"),
						Details:   "Status changed from 'in-progress' to 'resolved'. Issue was fixed by updating firewall rules.",
						User:      "System",
					},
					{
						Action:    "Ticket Created",
						Timestamp: seedTime("2025-03-14T09:22:15Z"),
						Details:   "Ticket was created",
						User:      "System",
					},
				},
			},
			{
				ID:             "TKT-1003",
				Title:          "Printer offline in Finance department",
				Description:    "The main printer in the Finance department (HP LaserJet 5500) is showing offline status and not accepting print jobs.",
				Priority:       model.PriorityMedium,
				System:         "sys1616161673",
				AreaSupervisor: "Unassigned",
				Impact:         "Affects 8 users in Finance. Causing moderate delays in document processing.",
				Status:         model.StatusOpen,
				CreatedAt:      seedTime("2025-03-16T08:30:00Z"),
				UpdatedAt:      seedTime("2025-03-16T08:30:00Z"),
				History: []model.HistoryEntry{
					{
						Action:    "Ticket Created",
						Timestamp: seedTime("2025-03-16T08:30:00Z"),
						Details:   "Ticket was created",
						User:      "System",
					},
				},
			},
		},
		Systems: []model.System{
			{
				ID:          "sys1616161671",
				Name:        "Corporate Network",
				Description: "Primary corporate network infrastructure including switches, routers, and access points",
				Category:    "Infrastructure",
				Status:      model.SystemDegraded,
			},
			{
				ID:          "sys1616161672",
				Name:        "Email Server",
				Description: "Mail server handling all corporate email",
				Category:    "Servers",
				Status:      model.SystemOperational,
			},
			{
				ID:          "sys1616161673",
				Name:        "Print Services",
				Description: "Network print services and printer infrastructure",
				Category:    "Infrastructure",
				Status:      model.SystemOperational,
			},
			{
				ID:          "sys1616161678",
				Name:        "VPN Service",
				Description: "Virtual Private Network for remote workers",
				Category:    "Infrastructure",
				Status:      model.SystemDown,
			},
			{
				ID:          "sys1616161680",
				Name:        "Backup System",
				Description: "Data backup and recovery infrastructure",
				Category:    "Infrastructure",
				Status:      model.SystemDegraded,
			},
		},
		Watchstations: []model.Watchstation{
			{
				ID:       "watch1616161681",
				Name:     "Network Operations Center",
				Location: "Building A, Room 210",
				Systems:  []string{"sys1616161671", "sys1616161672", "sys1616161678", "sys1616161680"},
			},
			{
				ID:       "watch1616161682",
				Name:     "Help Desk",
				Location: "Building A, Room 110",
				Systems:  []string{"sys1616161673"},
			},
		},
		Circuits: []model.Circuit{
			{
				ID:          "ckt1616161691",
				Description: "Main Internet Connection",
				Designation: "Primary WAN Link",
				Status:      model.SystemOperational,
				System:      "sys1616161671",
			},
			{
				ID:          "ckt1616161694",
				Description: "VPN Tunnel to Data Center",
				Designation: "Secure VPN",
				Status:      model.SystemDown,
				System:      "sys1616161678",
			},
			{
				ID:          "ckt1616161695",
				Description: "Backup System Data Link",
				Designation: "Backup Traffic Channel",
				Status:      model.SystemOperational,
				System:      "sys1616161680",
			},
		},
		Users: []model.User{
			{ID: "user1", Username: "admin", Email: "admin@example.com", Password: "admin123", Role: model.RoleAdmin},
			{ID: "user2", Username: "technician", Email: "tech@example.com", Password: "tech123", Role: model.RoleTechnician},
			{ID: "user3", Username: "viewer", Email: "viewer@example.com", Password: "viewer123", Role: model.RoleViewer},
		},
		Settings:         settings,
		NextTicketNumber: settings.NextTicketNumber,
		LastModified:     settings.LastModified,
		LastModifiedBy:   settings.LastModifiedBy,
	}
}

func seedTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func seedTimePtr(value string) *time.Time {
	t := seedTime(value)
	return &t
}
