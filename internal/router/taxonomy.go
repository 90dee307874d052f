package router

import (
	"net/http"

	"dropshipping/internal/catalog"

	"github.com/gin-gonic/gin"
)

func listCategories(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListCategories(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, list)
	}
}

func createCategory(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.TaxonomyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		cat, err := svc.CreateCategory(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusCreated, cat)
	}
}

func getCategory(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat, err := svc.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, cat)
	}
}

func updateCategory(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.TaxonomyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		cat, err := svc.UpdateCategory(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, cat)
	}
}

// deleteCategory 仍有商品引用时返回 409。
func deleteCategory(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "已删除"})
	}
}

// brandsByCategory 列出该分类下有在售商品的品牌。
func brandsByCategory(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.BrandsByCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, list)
	}
}

func listBrands(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListBrands(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, list)
	}
}

func createBrand(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.TaxonomyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		b, err := svc.CreateBrand(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusCreated, b)
	}
}

func getBrand(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svc.GetBrand(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, b)
	}
}

func updateBrand(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.TaxonomyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		b, err := svc.UpdateBrand(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, b)
	}
}

func deleteBrand(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "已删除"})
	}
}
