package viewer

import (
	"image"
	"time"

	"MandelbrotViewer/misc"
	"MandelbrotViewer/rpc"
	"MandelbrotViewer/viewport"
)

// Client calls a Service served at a remote address. Errors returned by the
// engine arrive as rpc.ServerError text.
type Client struct {
	tcp *rpc.TcpClient
}

func Dial(address string) (*Client, error) {
	c := &Client{tcp: rpc.NewTcpClient(address, "ViewerClient")}
	err := c.tcp.Connect()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) Close() error {
	return c.tcp.Disconnect()
}

func (c *Client) RollCall() (bool, error) {
	var present bool
	err := c.tcp.Call("Service.RollCall", misc.Nothing{}, &present)
	return present, err
}

func (c *Client) Status() (Status, error) {
	var status Status
	err := c.tcp.Call("Service.Status", misc.Nothing{}, &status)
	return status, err
}

func (c *Client) SetLimits(region viewport.Region) error {
	return c.tcp.Call("Service.SetLimits", region, &misc.Nothing{})
}

func (c *Client) ZoomAtPoint(x, y, factor float64, recenter bool) error {
	return c.tcp.Call("Service.ZoomAtPoint", ZoomRequest{X: x, Y: y, Factor: factor, Recenter: recenter}, &misc.Nothing{})
}

func (c *Client) ZoomToBox(box image.Rectangle, zoomOut bool) error {
	return c.tcp.Call("Service.ZoomToBox", BoxRequest{Box: box, ZoomOut: zoomOut}, &misc.Nothing{})
}

func (c *Client) Undo() (bool, error) {
	var undone bool
	err := c.tcp.Call("Service.Undo", misc.Nothing{}, &undone)
	return undone, err
}

func (c *Client) Cancel() error {
	return c.tcp.Call("Service.Cancel", misc.Nothing{}, &misc.Nothing{})
}

func (c *Client) Resize(width, height int) error {
	return c.tcp.Call("Service.Resize", SizeRequest{Width: width, Height: height}, &misc.Nothing{})
}

func (c *Client) SetMaxIterations(n int) error {
	return c.tcp.Call("Service.SetMaxIterations", n, &misc.Nothing{})
}

func (c *Client) SetPaletteLength(n int) error {
	return c.tcp.Call("Service.SetPaletteLength", n, &misc.Nothing{})
}

func (c *Client) WaitReady(timeout time.Duration) error {
	return c.tcp.Call("Service.WaitReady", timeout, &misc.Nothing{})
}

func (c *Client) ImagePNG() ([]byte, error) {
	var encoded []byte
	err := c.tcp.Call("Service.ImagePNG", misc.Nothing{}, &encoded)
	return encoded, err
}

func (c *Client) ExportSettings() (map[string]string, error) {
	var settings map[string]string
	err := c.tcp.Call("Service.ExportSettings", misc.Nothing{}, &settings)
	return settings, err
}

func (c *Client) ImportSettings(settings map[string]string) error {
	return c.tcp.Call("Service.ImportSettings", settings, &misc.Nothing{})
}
