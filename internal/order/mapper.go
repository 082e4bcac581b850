package order

func ToResponse(o *Order) *Response {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
			CreatedAt:   item.CreatedAt,
		})
	}

	return &Response{
		ID:          o.ID,
		UserID:      o.UserID,
		OrderItems:  items,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func ToResponses(orders []*Order) []*Response {
	out := make([]*Response, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToResponse(o))
	}
	return out
}
