// internal/transport/transport.go

package transport

import (
	"context"
	"errors"
)

// ZHA 红外转发器 cluster 命令参数
const (
	EndpointID  = 1
	ClusterID   = 57348
	ClusterType = "in"
	CommandID   = 2
	CommandType = "server"
)

var ErrEmptyCode = errors.New("empty IR code")

// Command issue_zigbee_cluster_command 服务数据
type Command struct {
	IEEE        string            `json:"ieee"`
	EndpointID  int               `json:"endpoint_id"`
	ClusterID   int               `json:"cluster_id"`
	ClusterType string            `json:"cluster_type"`
	Command     int               `json:"command"`
	CommandType string            `json:"command_type"`
	Params      map[string]string `json:"params"`
}

// NewIRCommand 构造发送红外码的 cluster 命令
func NewIRCommand(ieee, code string) Command {
	return Command{
		IEEE:        ieee,
		EndpointID:  EndpointID,
		ClusterID:   ClusterID,
		ClusterType: ClusterType,
		Command:     CommandID,
		CommandType: CommandType,
		Params:      map[string]string{"code": code},
	}
}

// Code 命令中的红外码
func (c Command) Code() string {
	return c.Params["code"]
}

// Transport 把命令发送到红外转发器
type Transport interface {
	Send(ctx context.Context, cmd Command) error
}
