package orders

// Order is one customer purchase record, from checkout through delivery.
// JSON tags match the on-disk layout of the order file.
type Order struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SenderPhone   string `json:"senderPhone"`
	ReceiverPhone string `json:"receiverPhone"`
	Qty           int    `json:"qty"`
	Total         int    `json:"total"`
	Discount      bool   `json:"discount"`
	Status        string `json:"status"`
	Time          string `json:"time"`
}
