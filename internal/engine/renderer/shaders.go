package renderer

// Lit pipeline: phong lighting with distance attenuation and linear fog.
const litVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec3 aNormal;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;

out vec3 fragPos;
out vec2 fragUV;
out vec3 fragNormal;

void main() {
	vec4 world = model * vec4(aPos, 1.0);
	fragPos = world.xyz;
	fragUV = aUV;
	fragNormal = mat3(model) * aNormal;
	gl_Position = projection * view * world;
}
` + "\x00"

const litFragmentShader = `
#version 410 core

struct Material {
	vec3 ambient;
	vec3 diffuse;
	vec3 specular;
	float shininess;
};

in vec3 fragPos;
in vec2 fragUV;
in vec3 fragNormal;

uniform Material material;
uniform vec3 lightPos;
uniform vec3 lightColor;
uniform vec3 viewPos;

uniform float attConstant;
uniform float attLinear;
uniform float attQuadratic;

uniform vec3 fogColor;
uniform float fogStart;
uniform float fogEnd;

uniform sampler2D diffuseMap;
uniform int hasTexture;

out vec4 FragColor;

void main() {
	vec3 base = material.diffuse;
	if (hasTexture == 1) {
		base = texture(diffuseMap, fragUV).rgb;
	}

	vec3 norm = normalize(fragNormal);
	vec3 lightDir = normalize(lightPos - fragPos);

	vec3 ambient = material.ambient * lightColor;

	float diff = max(dot(norm, lightDir), 0.0);
	vec3 diffuse = diff * base * lightColor;

	vec3 viewDir = normalize(viewPos - fragPos);
	vec3 reflectDir = reflect(-lightDir, norm);
	float spec = pow(max(dot(viewDir, reflectDir), 0.0), max(material.shininess, 1.0));
	vec3 specular = spec * material.specular * lightColor;

	float lightDist = length(lightPos - fragPos);
	float attenuation = 1.0 / (attConstant + attLinear * lightDist + attQuadratic * lightDist * lightDist);

	vec3 lit = ambient + attenuation * (diffuse + specular);

	float viewDist = length(viewPos - fragPos);
	float fog = clamp((fogEnd - viewDist) / (fogEnd - fogStart), 0.0, 1.0);

	FragColor = vec4(mix(fogColor, lit, fog), 1.0);
}
` + "\x00"

// Flat pipeline: solid color for curves and editor points.
const flatVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;
uniform float pointSize;

void main() {
	gl_Position = projection * view * model * vec4(aPos, 1.0);
	gl_PointSize = pointSize;
}
` + "\x00"

const flatFragmentShader = `
#version 410 core

uniform vec4 color;

out vec4 FragColor;

void main() {
	FragColor = color;
}
` + "\x00"
