package events

type Kind string

const (
	KindDinoAdded            Kind = "dino_added"
	KindDinoRemoved          Kind = "dino_removed"
	KindDinoLocationUpdated  Kind = "dino_location_updated"
	KindDinoFed              Kind = "dino_fed"
	KindMaintenancePerformed Kind = "maintenance_performed"
)

// Topic es el nombre de un canal del bus.
type Topic string

const (
	TopicDinoAdd     Topic = "service:dino_add"
	TopicDinoRemove  Topic = "service:dino_remove"
	TopicDinoMove    Topic = "service:dino_move"
	TopicDinoFeed    Topic = "service:dino_feed"
	TopicMaintenance Topic = "service:maintenance"
)

// topics es la tabla fija kind -> topic.
var topics = map[Kind]Topic{
	KindDinoAdded:            TopicDinoAdd,
	KindDinoRemoved:          TopicDinoRemove,
	KindDinoLocationUpdated:  TopicDinoMove,
	KindDinoFed:              TopicDinoFeed,
	KindMaintenancePerformed: TopicMaintenance,
}

// TopicFor devuelve el topic de un kind; ok=false si el kind no es enrutable.
func TopicFor(k Kind) (Topic, bool) {
	t, ok := topics[k]
	return t, ok
}

// Topics lista todos los topics en un orden fijo (útil para suscribir consumers).
func Topics() []Topic {
	return []Topic{TopicDinoAdd, TopicDinoRemove, TopicDinoMove, TopicDinoFeed, TopicMaintenance}
}
