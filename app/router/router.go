package router

import (
	"github.com/beego/beego/v2/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aihub/rag-go/app/controllers"
)

// Init 注册全部路由，必须在配置加载之后调用
func Init() {
	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", &controllers.HealthController{}, "get:Health")

	documentController := &controllers.DocumentController{}
	web.Router("/upload_doc", documentController, "post:Upload")
	web.Router("/documents/:doc_name", documentController, "delete:Delete")
	web.Router("/documents/:doc_name/exists", documentController, "get:Exists")

	queryController := &controllers.QueryController{}
	web.Router("/query", queryController, "post:Query")

	web.Handler("/metrics", promhttp.Handler())
}
