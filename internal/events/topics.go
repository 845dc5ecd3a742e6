package events

const (
	TopicTransactionCommitted = "transaction.committed"
	TopicInventoryProduct     = "inventory.product"
)

// Partition key = transaction id / product id, supaya event satu entitas tetap berurutan.
func PartitionKey(id string) []byte { return []byte(id) }
