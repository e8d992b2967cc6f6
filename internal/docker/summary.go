package docker

import (
	"sort"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/pkg/stringid"
)

const shortIDLength = 12

// ContainerSummary is the stable subset of a container list record.
type ContainerSummary struct {
	ID      string        `json:"id"`
	Names   string        `json:"names"`
	Image   string        `json:"image"`
	Command string        `json:"command"`
	Created int64         `json:"created"`
	Status  string        `json:"status"`
	Ports   []PortSummary `json:"ports"`
}

type PortSummary struct {
	IP          string `json:"ip,omitempty"`
	PrivatePort uint16 `json:"private_port"`
	PublicPort  uint16 `json:"public_port,omitempty"`
	Type        string `json:"type"`
}

// ImageSummary is the stable subset of an image list record.
type ImageSummary struct {
	ID          string            `json:"id"`
	RepoTags    []string          `json:"repo_tags"`
	Created     int64             `json:"created"`
	Size        int64             `json:"size"`
	VirtualSize int64             `json:"virtual_size"`
	Labels      map[string]string `json:"labels"`
}

// NetworkSummary is the stable subset of a network list record.
type NetworkSummary struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Driver  string            `json:"driver"`
	Scope   string            `json:"scope"`
	Created string            `json:"created"`
	Labels  map[string]string `json:"labels"`
	Options map[string]string `json:"options"`
	IPAM    IPAMSummary       `json:"ipam"`
}

type IPAMSummary struct {
	Driver  string            `json:"driver"`
	Options map[string]string `json:"options,omitempty"`
	Config  []IPAMPool        `json:"config"`
}

type IPAMPool struct {
	Subnet       string            `json:"subnet,omitempty"`
	IPRange      string            `json:"ip_range,omitempty"`
	Gateway      string            `json:"gateway,omitempty"`
	AuxAddresses map[string]string `json:"aux_addresses,omitempty"`
}

// VolumeSummary is the stable subset of a volume record.
type VolumeSummary struct {
	Name       string            `json:"name"`
	Driver     string            `json:"driver"`
	Mountpoint string            `json:"mountpoint"`
	CreatedAt  string            `json:"created_at"`
	Labels     map[string]string `json:"labels"`
	Options    map[string]string `json:"options"`
	Scope      string            `json:"scope"`
}

// ContainerRef identifies a container after a lifecycle operation.
type ContainerRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ImageRef identifies an image after a pull or build.
type ImageRef struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

// NetworkRef identifies a created network.
type NetworkRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Warning string `json:"warning,omitempty"`
}

// Removal reports a removed container, network, or volume.
type Removal struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// ImageRemoval reports a removed image.
type ImageRemoval struct {
	Status   string   `json:"status"`
	Image    string   `json:"image"`
	Deleted  []string `json:"deleted,omitempty"`
	Untagged []string `json:"untagged,omitempty"`
}

// PushResult reports a pushed image.
type PushResult struct {
	Status     string `json:"status"`
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
}

// truncate returns the first twelve characters of id.
func truncate(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

// containerName returns the first name with its leading slash removed.
func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

func summarizeContainer(c container.Summary) ContainerSummary {
	ports := make([]PortSummary, 0, len(c.Ports))
	for _, p := range c.Ports {
		ports = append(ports, PortSummary{
			IP:          p.IP,
			PrivatePort: p.PrivatePort,
			PublicPort:  p.PublicPort,
			Type:        p.Type,
		})
	}

	return ContainerSummary{
		ID:      truncate(c.ID),
		Names:   containerName(c.Names),
		Image:   c.Image,
		Command: c.Command,
		Created: c.Created,
		Status:  c.Status,
		Ports:   ports,
	}
}

// summarizeImage reports Size as the virtual size as well: the engine stopped
// distinguishing the two in API v1.44.
func summarizeImage(i image.Summary) ImageSummary {
	tags := i.RepoTags
	if tags == nil {
		tags = []string{}
	}

	return ImageSummary{
		ID:          stringid.TruncateID(i.ID),
		RepoTags:    tags,
		Created:     i.Created,
		Size:        i.Size,
		VirtualSize: i.Size,
		Labels:      i.Labels,
	}
}

func summarizeNetwork(n network.Summary) NetworkSummary {
	ipam := IPAMSummary{
		Driver:  n.IPAM.Driver,
		Options: n.IPAM.Options,
		Config:  make([]IPAMPool, 0, len(n.IPAM.Config)),
	}
	for _, pool := range n.IPAM.Config {
		ipam.Config = append(ipam.Config, IPAMPool{
			Subnet:       pool.Subnet,
			IPRange:      pool.IPRange,
			Gateway:      pool.Gateway,
			AuxAddresses: pool.AuxAddress,
		})
	}

	var created string
	if !n.Created.IsZero() {
		created = n.Created.UTC().Format(time.RFC3339Nano)
	}

	return NetworkSummary{
		ID:      truncate(n.ID),
		Name:    n.Name,
		Driver:  n.Driver,
		Scope:   n.Scope,
		Created: created,
		Labels:  n.Labels,
		Options: n.Options,
		IPAM:    ipam,
	}
}

func summarizeVolume(v volume.Volume) VolumeSummary {
	return VolumeSummary{
		Name:       v.Name,
		Driver:     v.Driver,
		Mountpoint: v.Mountpoint,
		CreatedAt:  v.CreatedAt,
		Labels:     v.Labels,
		Options:    v.Options,
		Scope:      v.Scope,
	}
}

func inspectRef(c container.InspectResponse) ContainerRef {
	ref := ContainerRef{}
	if c.ContainerJSONBase == nil {
		return ref
	}

	ref.ID = truncate(c.ID)
	ref.Name = strings.TrimPrefix(c.Name, "/")
	if c.State != nil {
		ref.Status = string(c.State.Status)
	}
	return ref
}

func imageRef(i image.InspectResponse) ImageRef {
	tags := append([]string{}, i.RepoTags...)
	sort.Strings(tags)
	return ImageRef{
		ID:   stringid.TruncateID(i.ID),
		Tags: tags,
	}
}
