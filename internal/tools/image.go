package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ryanmoran/docker-mcp/internal/docker"
)

type ListImagesRequest struct {
	All  bool   `json:"all"`
	Name string `json:"name"`
}

// ImageReferenceRequest holds the arguments of pull_image and push_image.
type ImageReferenceRequest struct {
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
}

type BuildImageRequest struct {
	Path       string            `json:"path"`
	Tag        string            `json:"tag"`
	Dockerfile string            `json:"dockerfile"`
	BuildArgs  map[string]string `json:"build_args"`
	Labels     map[string]string `json:"labels"`
	NoCache    bool              `json:"no_cache"`
	Pull       bool              `json:"pull"`
}

type RemoveImageRequest struct {
	Image string `json:"image"`
	Force bool   `json:"force"`
}

// ImageHandler owns the image tools.
type ImageHandler struct {
	engine Engine
}

func NewImageHandler(engine Engine) ImageHandler {
	return ImageHandler{engine: engine}
}

func (h ImageHandler) Tools() []mcp.Tool {
	reference := map[string]property{
		"repository": stringProp("Image repository, for example nginx or ghcr.io/acme/app"),
		"tag":        stringProp(`Image tag; defaults to "latest"`),
	}

	return []mcp.Tool{
		newTool("list_images", "List images", nil, map[string]property{
			"all":  boolProp("Include intermediate images", false),
			"name": stringProp("Only list images matching this reference"),
		}),
		newTool("pull_image", "Pull an image from a registry", []string{"repository"}, reference),
		newTool("push_image", "Push an image to a registry", []string{"repository"}, reference),
		newTool("build_image", "Build an image from a directory containing a Dockerfile", []string{"path"}, map[string]property{
			"path":       stringProp("Path of the build context directory on the server's filesystem"),
			"tag":        stringProp("Tag for the built image"),
			"dockerfile": stringProp("Dockerfile path relative to the context; defaults to Dockerfile"),
			"build_args": stringMapProp("Build-time variables"),
			"labels":     stringMapProp("Image labels"),
			"no_cache":   boolProp("Do not use the build cache", false),
			"pull":       boolProp("Always pull newer base images", false),
		}),
		newTool("remove_image", "Remove an image", []string{"image"}, map[string]property{
			"image": stringProp("Image ID or reference"),
			"force": boolProp("Remove the image even if containers use it", false),
		}),
	}
}

func (h ImageHandler) Handle(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "list_images":
		var req ListImagesRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		return result(h.engine.ListImages(ctx, docker.ImageListOptions{All: req.All, Name: req.Name}))

	case "pull_image", "push_image":
		var req ImageReferenceRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("repository", req.Repository); err != nil {
			return nil, err
		}
		if name == "pull_image" {
			return result(h.engine.PullImage(ctx, req.Repository, req.Tag))
		}
		return result(h.engine.PushImage(ctx, req.Repository, req.Tag))

	case "build_image":
		var req BuildImageRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("path", req.Path); err != nil {
			return nil, err
		}
		return result(h.engine.BuildImage(ctx, docker.BuildSpec{
			Path:       req.Path,
			Tag:        req.Tag,
			Dockerfile: req.Dockerfile,
			BuildArgs:  req.BuildArgs,
			Labels:     req.Labels,
			NoCache:    req.NoCache,
			Pull:       req.Pull,
		}))

	case "remove_image":
		var req RemoveImageRequest
		if err := bind(args, &req); err != nil {
			return nil, err
		}
		if err := required("image", req.Image); err != nil {
			return nil, err
		}
		return result(h.engine.RemoveImage(ctx, req.Image, req.Force))
	}

	return nil, fmt.Errorf("%w: %q is not an image operation", ErrUnknownOperation, name)
}
