package constants

type Gateway string

const (
	VNPayGateway Gateway = "vnpay"
)

const ServiceName = "fcoder"
