package redis

import "fmt"

// Key prefix for all site data
const keyPrefix = "keepsake"

// questionKey returns the Redis key for a SecurityQuestion
func questionKey(id string) string {
	return fmt.Sprintf("%s:question:%s", keyPrefix, id)
}

// questionIndexKey returns the Redis key for the SET of question ids
func questionIndexKey() string {
	return fmt.Sprintf("%s:idx:questions", keyPrefix)
}

// adminKey returns the Redis key for an AdminAccount
func adminKey(id string) string {
	return fmt.Sprintf("%s:admin:%s", keyPrefix, id)
}

// adminIndexKey returns the Redis key for the SET of admin ids
func adminIndexKey() string {
	return fmt.Sprintf("%s:idx:admins", keyPrefix)
}

// usernameIndexKey returns the Redis key for the username -> admin_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:admin_username:%s", keyPrefix, username)
}

// failedAttemptsKey returns the Redis key for the per-client ZSET of failed
// challenge attempts, scored by unix-millisecond timestamp
func failedAttemptsKey(clientID string) string {
	return fmt.Sprintf("%s:failed_attempts:%s", keyPrefix, clientID)
}

// attemptLogKey returns the Redis key for the append-only attempt log
func attemptLogKey() string {
	return fmt.Sprintf("%s:attempt_log", keyPrefix)
}

// petKey returns the Redis key for the single companion record
func petKey() string {
	return fmt.Sprintf("%s:pet", keyPrefix)
}

// messageKey returns the Redis key for a Message
func messageKey(id string) string {
	return fmt.Sprintf("%s:message:%s", keyPrefix, id)
}

// messageIndexKey returns the Redis key for the SET of message ids
func messageIndexKey() string {
	return fmt.Sprintf("%s:idx:messages", keyPrefix)
}

// memoKey returns the Redis key for a Memo
func memoKey(id string) string {
	return fmt.Sprintf("%s:memo:%s", keyPrefix, id)
}

// memoIndexKey returns the Redis key for the SET of memo ids
func memoIndexKey() string {
	return fmt.Sprintf("%s:idx:memos", keyPrefix)
}

// photoKey returns the Redis key for a Photo
func photoKey(id string) string {
	return fmt.Sprintf("%s:photo:%s", keyPrefix, id)
}

// photoIndexKey returns the Redis key for the SET of photo ids
func photoIndexKey() string {
	return fmt.Sprintf("%s:idx:photos", keyPrefix)
}
