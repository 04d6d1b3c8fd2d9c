package event

const OtpIssuedDestination string = "otp_issued"
const OtpIssuedConsumerNotification string = "otp_issued_notification"

// OtpIssuedMessage carries a freshly issued one-time code to the notification
// consumer. EventID deduplicates broker redeliveries.
type OtpIssuedMessage struct {
	EventID  string `json:"event_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Purpose  string `json:"purpose"`
	Code     string `json:"code"`
}
