package docker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/distribution/reference"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
	"golang.org/x/sync/errgroup"
)

// ImageListOptions narrows ListImages. Name filters by reference, for example "nginx"
// or "nginx:1.*".
type ImageListOptions struct {
	All  bool
	Name string
}

// BuildSpec describes an image build from a directory on the server's filesystem.
type BuildSpec struct {
	Path       string
	Tag        string
	Dockerfile string
	BuildArgs  map[string]string
	Labels     map[string]string
	NoCache    bool
	Pull       bool
}

// BuildResult reports a finished build: the image and every message the engine sent, in order.
type BuildResult struct {
	Image ImageRef          `json:"image"`
	Logs  []json.RawMessage `json:"logs"`
}

// ParseReference normalizes repository and tag into a named reference. A tag argument
// replaces any tag in repository; without either, "latest" is used. Digest references
// are kept as they are.
func ParseReference(repository, tag string) (reference.Named, error) {
	named, err := reference.ParseNormalizedNamed(repository)
	if err != nil {
		return nil, fmt.Errorf("%w: image reference %q: %v", ErrInvalidSpec, repository, err)
	}

	if tag != "" {
		named, err = reference.WithTag(reference.TrimNamed(named), tag)
		if err != nil {
			return nil, fmt.Errorf("%w: tag %q: %v", ErrInvalidSpec, tag, err)
		}
		return named, nil
	}

	return reference.TagNameOnly(named), nil
}

// ListImages lists images, projecting each record.
func (c Client) ListImages(ctx context.Context, options ImageListOptions) ([]ImageSummary, error) {
	args := filters.NewArgs()
	if options.Name != "" {
		args.Add("reference", options.Name)
	}

	items, err := c.client.ImageList(ctx, image.ListOptions{All: options.All, Filters: args})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	summaries := make([]ImageSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, summarizeImage(item))
	}
	return summaries, nil
}

// PullImage pulls repository:tag and reports the pulled image. The progress stream is read
// to the end; an error reported in the stream fails the pull.
func (c Client) PullImage(ctx context.Context, repository, tag string) (ImageRef, error) {
	named, err := ParseReference(repository, tag)
	if err != nil {
		return ImageRef{}, err
	}
	ref := reference.FamiliarString(named)

	auth, err := c.registryAuth(named)
	if err != nil {
		return ImageRef{}, err
	}

	rc, err := c.client.ImagePull(ctx, named.String(), image.PullOptions{RegistryAuth: auth})
	if err != nil {
		return ImageRef{}, fmt.Errorf("failed to pull image %q: %w\nCheck the image name and registry access", ref, err)
	}
	defer rc.Close()

	if err := drain(rc); err != nil {
		return ImageRef{}, fmt.Errorf("failed to pull image %q: %w", ref, err)
	}

	info, err := c.client.ImageInspect(ctx, ref)
	if err != nil {
		return ImageRef{}, fmt.Errorf("failed to inspect pulled image %q: %w", ref, err)
	}

	return imageRef(info), nil
}

// PushImage pushes repository:tag with the credentials stored for its registry. Errors
// reported in the progress stream fail the push.
func (c Client) PushImage(ctx context.Context, repository, tag string) (PushResult, error) {
	named, err := ParseReference(repository, tag)
	if err != nil {
		return PushResult{}, err
	}
	ref := reference.FamiliarString(named)

	auth, err := c.registryAuth(named)
	if err != nil {
		return PushResult{}, err
	}

	rc, err := c.client.ImagePush(ctx, named.String(), image.PushOptions{RegistryAuth: auth})
	if err != nil {
		return PushResult{}, fmt.Errorf("failed to push image %q: %w\nCheck that the image exists locally and the registry accepts it", ref, err)
	}
	defer rc.Close()

	if err := drain(rc); err != nil {
		return PushResult{}, fmt.Errorf("failed to push image %q: %w", ref, err)
	}

	result := PushResult{Status: "pushed", Repository: reference.FamiliarName(named)}
	if tagged, ok := named.(reference.Tagged); ok {
		result.Tag = tagged.Tag()
	}
	return result, nil
}

// BuildImage archives spec.Path and builds it. The archive is streamed to the engine while it
// is written.
func (c Client) BuildImage(ctx context.Context, spec BuildSpec) (BuildResult, error) {
	info, err := os.Stat(spec.Path)
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: build path %q: %v", ErrInvalidSpec, spec.Path, err)
	}
	if !info.IsDir() {
		return BuildResult{}, fmt.Errorf("%w: build path %q is not a directory", ErrInvalidSpec, spec.Path)
	}

	dockerfile := spec.Dockerfile
	if dockerfile == "" {
		dockerfile = DefaultDockerfile
	}

	options := build.ImageBuildOptions{
		Dockerfile:  dockerfile,
		BuildArgs:   buildArgs(spec.BuildArgs),
		Labels:      spec.Labels,
		NoCache:     spec.NoCache,
		PullParent:  spec.Pull,
		Remove:      true,
		ForceRemove: true,
	}
	if spec.Tag != "" {
		options.Tags = []string{spec.Tag}
	}

	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := WriteBuildContext(pw, spec.Path, dockerfile)
		pw.CloseWithError(err)
		if errors.Is(err, io.ErrClosedPipe) {
			return nil
		}
		return err
	})

	var result BuildResult
	g.Go(func() error {
		defer pr.Close()

		response, err := c.client.ImageBuild(gctx, pr, options)
		if err != nil {
			return fmt.Errorf("failed to build image from %q: %w\nCheck the Dockerfile and build context", spec.Path, err)
		}
		defer response.Body.Close()

		result, err = c.collectBuild(gctx, response.Body, spec.Tag)
		return err
	})

	if err := g.Wait(); err != nil {
		return BuildResult{}, err
	}
	return result, nil
}

func (c Client) collectBuild(ctx context.Context, body io.Reader, tag string) (BuildResult, error) {
	result := BuildResult{Logs: []json.RawMessage{}}
	var imageID string

	decoder := json.NewDecoder(body)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			return BuildResult{}, fmt.Errorf("failed to read build output: %w", err)
		}
		result.Logs = append(result.Logs, raw)

		var message jsonmessage.JSONMessage
		if err := json.Unmarshal(raw, &message); err != nil {
			continue
		}

		if message.Error != nil {
			return BuildResult{}, fmt.Errorf("failed to build image: %s", message.Error.Message)
		}

		if message.Aux != nil {
			var aux struct {
				ID string `json:"ID"`
			}
			if err := json.Unmarshal(*message.Aux, &aux); err == nil && aux.ID != "" {
				imageID = aux.ID
			}
		}
	}

	if imageID == "" {
		imageID = tag
	}
	if imageID == "" {
		return BuildResult{}, errors.New("failed to build image: the engine did not report an image id")
	}

	info, err := c.client.ImageInspect(ctx, imageID)
	if err != nil {
		return BuildResult{}, fmt.Errorf("failed to inspect built image %q: %w", imageID, err)
	}

	result.Image = imageRef(info)
	return result, nil
}

// RemoveImage removes an image by id or reference.
func (c Client) RemoveImage(ctx context.Context, ref string, force bool) (ImageRemoval, error) {
	responses, err := c.client.ImageRemove(ctx, ref, image.RemoveOptions{Force: force, PruneChildren: true})
	if err != nil {
		return ImageRemoval{}, fmt.Errorf("failed to remove image %q: %w\nImage may be in use by a container - use force if needed", ref, err)
	}

	removal := ImageRemoval{Status: "removed", Image: ref}
	for _, response := range responses {
		if response.Deleted != "" {
			removal.Deleted = append(removal.Deleted, response.Deleted)
		}
		if response.Untagged != "" {
			removal.Untagged = append(removal.Untagged, response.Untagged)
		}
	}
	return removal, nil
}

func buildArgs(args map[string]string) map[string]*string {
	if len(args) == 0 {
		return nil
	}

	out := make(map[string]*string, len(args))
	for key, value := range args {
		out[key] = &value
	}
	return out
}

// drain reads a pull or push progress stream to the end and returns the first error it reports.
func drain(r io.Reader) error {
	return jsonmessage.DisplayJSONMessagesStream(r, io.Discard, 0, false, nil)
}
