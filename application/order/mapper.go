package order

import "storefront/domain/order"

func toLineRequests(items []OrderItemRequest) []order.LineRequest {
	lines := make([]order.LineRequest, len(items))
	for i, item := range items {
		lines[i] = order.LineRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}

func toOrderItemResponse(item order.Item) OrderItemResponse {
	return OrderItemResponse{
		ID:          item.ID(),
		OrderID:     item.OrderID(),
		ProductID:   item.ProductID(),
		ProductName: item.ProductName(),
		Quantity:    item.Quantity(),
		UnitPrice:   item.UnitPrice(),
		Subtotal:    item.Subtotal(),
	}
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := o.Items()
	resp := make([]OrderItemResponse, len(items))
	for i, item := range items {
		resp[i] = toOrderItemResponse(item)
	}
	return &OrderResponse{
		ID:         o.ID(),
		CustomerID: o.CustomerID(),
		Items:      resp,
		Total:      o.Total(),
		Discount:   o.Discount(),
		AmountDue:  o.AmountDue(),
		CouponCode: o.CouponCode(),
		Status:     o.Status().String(),
		Version:    o.Version(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
}
