package client

import (
	"context"
	"net/url"

	"carrental/pkg/model"
)

// RentalClient is a typed client for the rental HTTP API. It is used by
// integration tests and operational scripts.
type RentalClient struct {
	httpClient *HttpClient
}

func NewRentalClient(baseURL string) *RentalClient {
	return &RentalClient{httpClient: NewHttpClient(baseURL)}
}

func (c *RentalClient) HTTP() *HttpClient {
	return c.httpClient
}

// Login authenticates and keeps the session token for later calls.
func (c *RentalClient) Login(ctx context.Context, email, password string) (*model.Session, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/auth/login", model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := decodeData(resp, &session); err != nil {
		return nil, err
	}
	c.httpClient.SetToken(session.Token)
	return &session, nil
}

func (c *RentalClient) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/auth/signup", req)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := decodeData(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *RentalClient) CreateCar(ctx context.Context, car *model.Car) (*model.Car, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/cars", car)
	if err != nil {
		return nil, err
	}
	var created model.Car
	if err := decodeData(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *RentalClient) DeleteCar(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/v1/cars/id/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	return decodeData(resp, nil)
}

func (c *RentalClient) CheckAvailability(ctx context.Context, query *model.AvailabilityQuery) (*model.Availability, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/availability", query)
	if err != nil {
		return nil, err
	}
	var availability model.Availability
	if err := decodeData(resp, &availability); err != nil {
		return nil, err
	}
	return &availability, nil
}

func (c *RentalClient) CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.BookingReceipt, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/bookings", req)
	if err != nil {
		return nil, err
	}
	var receipt model.BookingReceipt
	if err := decodeData(resp, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *RentalClient) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeData(resp, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *RentalClient) CancelBooking(ctx context.Context, id, reason string) (*model.Booking, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/bookings/id/"+url.PathEscape(id)+"/cancel", &model.CancelRequest{Reason: reason})
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeData(resp, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}
