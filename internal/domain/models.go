package domain

// Models returns every model in migration order
func Models() []any {
	return []any{
		&User{},
		&Unit{},
		&CommonArea{},
		&Reservation{},
		&Expense{},
		&Vehicle{},
		&Visitor{},
		&FaceRecord{},
		&SecurityEvent{},
		&Notification{},
		&MaintenanceRequest{},
		&VehiclePlate{},
		&VehicleAccessLog{},
	}
}
