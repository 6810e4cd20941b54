package constvars

const (
	MongoCollectionPatientRecords = "patient_records"
	MongoCollectionNotifications  = "notifications"
)
