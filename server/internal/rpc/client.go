package rpc

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls a remote Dashboard service.
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a Client for the server at target. The connection is
// established lazily on the first call.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("rpc: dial %s: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

// Close tears down the connection.
func (c *Client) Close() error { return c.conn.Close() }

// Sites calls Dashboard/Sites.
func (c *Client) Sites(ctx context.Context, req *SitesRequest) (*SitesResponse, error) {
	out := new(SitesResponse)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/Sites", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Pie calls Dashboard/Pie.
func (c *Client) Pie(ctx context.Context, req *PieRequest) (*PieResponse, error) {
	out := new(PieResponse)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/Pie", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Scatter calls Dashboard/Scatter.
func (c *Client) Scatter(ctx context.Context, req *ScatterRequest) (*ScatterResponse, error) {
	out := new(ScatterResponse)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/Scatter", req, out); err != nil {
		return nil, err
	}
	return out, nil
}
