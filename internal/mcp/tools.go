package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentberlin/bluespider/internal/types"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers all MCP tools with the server
func (s *MCPServer) registerTools() {
	s.registerDiscoverResourcesTool()

	if s.app.Store() == nil {
		return
	}
	s.registerCrawlSiteTool()
	s.registerCrawlWebsiteTool()
	s.registerStopCrawlTool()
	s.registerGetCrawlStatusTool()
	s.registerListProjectsTool()
	s.registerListProjectCrawlsTool()
	s.registerGetCrawlResourcesTool()
	s.registerDeleteCrawlTool()
	s.registerDeleteProjectTool()
}

// DiscoverResourcesArgs defines the input schema for discover_resources tool
type DiscoverResourcesArgs struct {
	URL   string `json:"url"`
	Depth int    `json:"depth,omitempty"`
}

func (s *MCPServer) registerDiscoverResourcesTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "discover_resources",
		Description: "Fetches one URL without following redirects and lists every resource its parsers find (links, forms, headers, redirects, robots.txt and sitemap entries)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DiscoverResourcesArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "discover_resources", "url", args.URL)

		result, err := s.app.Discover(ctx, args.URL, args.Depth)
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(fmt.Sprintf("Found %d resources at %s:", len(result.Resources), result.URL), result), result, nil
	})
}

// CrawlArgs defines the input schema shared by crawl_site and crawl_website
type CrawlArgs struct {
	URL               string   `json:"url"`
	MaxDepth          *int     `json:"maxDepth,omitempty"`
	MaxRequests       int      `json:"maxRequests,omitempty"`
	Parallelism       int      `json:"parallelism,omitempty"`
	IncludeSubdomains bool     `json:"includeSubdomains,omitempty"`
	Scope             []string `json:"scope,omitempty"`
	SendReferer       bool     `json:"sendReferer,omitempty"`
}

func (args CrawlArgs) request() types.CrawlRequest {
	return types.CrawlRequest{
		URL:               args.URL,
		MaxDepth:          args.MaxDepth,
		MaxRequests:       args.MaxRequests,
		Parallelism:       args.Parallelism,
		IncludeSubdomains: args.IncludeSubdomains,
		Scope:             args.Scope,
		SendReferer:       args.SendReferer,
	}
}

func (s *MCPServer) registerCrawlSiteTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "crawl_site",
		Description: "Crawls a site from a seed URL and waits for it to finish. Resources are stored and can be read with get_crawl_resources.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CrawlArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "crawl_site", "url", args.URL)

		info, err := s.app.RunCrawl(ctx, args.request())
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(fmt.Sprintf("Crawl %d of %s %s: %d pages fetched, %d resources found",
			info.ID, info.Domain, info.State, info.PagesFetched, info.ResourceCount), info), info, nil
	})
}

// CrawlWebsiteResult defines the output schema for crawl_website tool
type CrawlWebsiteResult struct {
	Success   bool   `json:"success"`
	ProjectID uint   `json:"projectId,omitempty"`
	CrawlID   uint   `json:"crawlId,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Message   string `json:"message"`
}

func (s *MCPServer) registerCrawlWebsiteTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "crawl_website",
		Description: "Starts a crawl in the background and returns immediately. Poll get_crawl_status for progress.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CrawlArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "crawl_website", "url", args.URL)

		progress, err := s.app.StartCrawl(args.request())
		if err != nil {
			return nil, CrawlWebsiteResult{
				Success: false,
				Message: fmt.Sprintf("Failed to start crawl: %v", err),
			}, nil
		}

		return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Text: fmt.Sprintf("Crawl started successfully for %s (Project ID: %d, Crawl ID: %d)", progress.Domain, progress.ProjectID, progress.CrawlID),
					},
				},
			}, CrawlWebsiteResult{
				Success:   true,
				ProjectID: progress.ProjectID,
				CrawlID:   progress.CrawlID,
				Domain:    progress.Domain,
				Message:   "Crawl started successfully",
			}, nil
	})
}

// ProjectArgs identifies a project
type ProjectArgs struct {
	ProjectID uint `json:"projectId"`
}

// ActionResult reports the outcome of a mutating tool
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func actionResult(err error, done string) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return nil, ActionResult{Success: false, Message: err.Error()}, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: done}},
	}, ActionResult{Success: true, Message: done}, nil
}

func (s *MCPServer) registerStopCrawlTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stop_crawl",
		Description: "Stops the active crawl of a project. The crawl is kept with state stopped.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ProjectArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "stop_crawl", "project", args.ProjectID)

		return actionResult(s.app.StopCrawl(args.ProjectID),
			fmt.Sprintf("Crawl stopped for project ID: %d", args.ProjectID))
	})
}

// CrawlStatusResult defines the output schema for get_crawl_status tool
type CrawlStatusResult struct {
	IsCrawling bool                 `json:"isCrawling"`
	Progress   *types.CrawlProgress `json:"progress,omitempty"`
	Latest     *types.CrawlInfo     `json:"latest,omitempty"`
}

func (s *MCPServer) registerGetCrawlStatusTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_crawl_status",
		Description: "Reports the progress of a project's active crawl, or its latest stored crawl when none is running",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ProjectArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "get_crawl_status", "project", args.ProjectID)

		if progress, ok := s.app.GetCrawlProgress(args.ProjectID); ok {
			result := CrawlStatusResult{IsCrawling: true, Progress: progress}
			return jsonResult("Active crawl status:", result), result, nil
		}

		crawls, err := s.app.GetCrawls(args.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		result := CrawlStatusResult{}
		if len(crawls) > 0 {
			result.Latest = &crawls[0]
		}
		return jsonResult("No active crawl. Latest crawl:", result), result, nil
	})
}

func (s *MCPServer) registerListProjectsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_projects",
		Description: "Lists all crawled projects (one per domain) with their latest crawl",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "list_projects")

		projects, err := s.app.GetProjects()
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(fmt.Sprintf("Found %d projects:", len(projects)), projects), projects, nil
	})
}

func (s *MCPServer) registerListProjectCrawlsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_project_crawls",
		Description: "Lists the crawls of a project, newest first",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ProjectArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "list_project_crawls", "project", args.ProjectID)

		crawls, err := s.app.GetCrawls(args.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(fmt.Sprintf("Found %d crawls:", len(crawls)), crawls), crawls, nil
	})
}

// GetCrawlResourcesArgs defines the input schema for get_crawl_resources tool
type GetCrawlResourcesArgs struct {
	CrawlID uint   `json:"crawlId"`
	Query   string `json:"query,omitempty"`
	Method  string `json:"method,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

func (s *MCPServer) registerGetCrawlResourcesTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_crawl_resources",
		Description: "Returns the resources discovered by a stored crawl, optionally filtered by a URL substring and HTTP method",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetCrawlResourcesArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "get_crawl_resources", "crawl", args.CrawlID, "query", args.Query)

		result, err := s.app.GetCrawlResources(args.CrawlID, args.Query, args.Method, args.Limit)
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(fmt.Sprintf("Crawl %d resources (showing %d of %d):", args.CrawlID, len(result.Resources), result.Total), result), result, nil
	})
}

// DeleteCrawlArgs defines the input schema for delete_crawl tool
type DeleteCrawlArgs struct {
	CrawlID uint `json:"crawlId"`
}

func (s *MCPServer) registerDeleteCrawlTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_crawl",
		Description: "Deletes a stored crawl and everything it discovered",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DeleteCrawlArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "delete_crawl", "crawl", args.CrawlID)

		return actionResult(s.app.DeleteCrawlByID(args.CrawlID), fmt.Sprintf("Crawl %d deleted", args.CrawlID))
	})
}

func (s *MCPServer) registerDeleteProjectTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_project",
		Description: "Deletes a project with all of its crawls",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ProjectArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Info("tool called", "tool", "delete_project", "project", args.ProjectID)

		return actionResult(s.app.DeleteProjectByID(args.ProjectID), fmt.Sprintf("Project %d deleted", args.ProjectID))
	})
}

func jsonResult(title string, v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: title + "\n" + string(data)},
		},
	}
}
